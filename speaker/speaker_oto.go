//go:build !malgo && !portaudio
// +build !malgo,!portaudio

package speaker

import (
	"sync"

	"github.com/hajimehoshi/oto"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/faiface/tonestream"
)

// Backend names the sound library this build plays through.
const Backend = "oto"

// Speaker is a tonestream.Sink writing to the default output device.
//
// oto players are always running, so Play opens a fresh player and Stop closes it. Closing
// discards whatever the player still had buffered, which doubles as Flush.
type Speaker struct {
	format tonestream.Format
	log    *zap.Logger

	context *oto.Context

	// mu is held for the whole of a Write, so Stop waits for at most one block to be accepted.
	mu     sync.Mutex
	player *oto.Player
	buf    []byte
}

// Open initializes the audio device for format with a buffer of bufferSize bytes. Only one Speaker
// may be open at a time.
func Open(format tonestream.Format, bufferSize int, opts ...Option) (*Speaker, error) {
	if err := checkFormat(format, bufferSize); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	if o.device != "" {
		return nil, ErrDeviceSelection
	}

	context, err := oto.NewContext(int(format.SampleRate), format.NumChannels, format.Precision, bufferSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize speaker")
	}
	o.log.Debug("speaker opened",
		zap.String("backend", Backend),
		zap.Int("sampleRate", int(format.SampleRate)),
		zap.Int("channels", format.NumChannels),
		zap.Int("bufferSize", bufferSize),
	)
	return &Speaker{
		format:  format,
		log:     o.log,
		context: context,
	}, nil
}

// Flush drops samples written before the last Stop. A stopped Speaker holds none, so this only
// matters when Flush is called while playing.
func (s *Speaker) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = s.context.NewPlayer()
	return errors.Wrap(err, "speaker: flush")
}

// Play starts accepting writes.
func (s *Speaker) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.context == nil {
		return errors.New("speaker: released")
	}
	if s.player == nil {
		s.player = s.context.NewPlayer()
	}
	return nil
}

// Stop closes the player once any in-flight Write returns. Later writes fail with ErrStopped.
func (s *Speaker) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop()
}

func (s *Speaker) stop() error {
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return errors.Wrap(err, "speaker: stop")
}

// Write encodes block and blocks until oto has buffered it.
func (s *Speaker) Write(block []int16) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return 0, ErrStopped
	}

	size := len(block) * s.format.Width()
	if len(s.buf) < size {
		s.buf = make([]byte, size)
	}
	s.format.EncodeBlock(s.buf, block)

	written, err := s.player.Write(s.buf[:size])
	if err != nil {
		return written / s.format.Width(), errors.Wrap(err, "speaker: write")
	}
	return written / s.format.Width(), nil
}

// Release closes the player and the audio context.
func (s *Speaker) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.context == nil {
		return nil
	}
	stopErr := s.stop()
	err := s.context.Close()
	s.context = nil
	if err != nil {
		return errors.Wrap(err, "speaker: release")
	}
	return stopErr
}

var _ tonestream.Sink = (*Speaker)(nil)
