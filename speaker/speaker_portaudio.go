//go:build portaudio && !malgo
// +build portaudio,!malgo

package speaker

import (
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/faiface/tonestream"
)

// Backend names the sound library this build plays through.
const Backend = "portaudio"

// Speaker is a tonestream.Sink writing to the default output device through PortAudio's blocking
// stream API.
//
// Blocks are gathered into the stream's buffer, and each full buffer is handed to PortAudio with
// a write that waits for room on the device.
type Speaker struct {
	format tonestream.Format
	log    *zap.Logger

	// mu is held for the whole of a Write, so Stop waits for at most one buffer to be accepted.
	mu      sync.Mutex
	stream  *portaudio.Stream
	buf     []int16
	pos     int
	playing bool
}

// Open initializes PortAudio and opens the default output stream for format with a buffer of
// bufferSize bytes.
func Open(format tonestream.Format, bufferSize int, opts ...Option) (*Speaker, error) {
	if err := checkFormat(format, bufferSize); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	if o.device != "" {
		return nil, ErrDeviceSelection
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize speaker")
	}

	framesPerBuffer := bufferSize / format.Width()
	s := &Speaker{
		format: format,
		log:    o.log,
		buf:    make([]int16, framesPerBuffer*format.NumChannels),
	}
	stream, err := portaudio.OpenDefaultStream(0, format.NumChannels, float64(format.SampleRate), framesPerBuffer, s.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, errors.Wrap(err, "failed to initialize speaker (stream)")
	}
	s.stream = stream

	s.log.Debug("speaker opened",
		zap.String("backend", Backend),
		zap.Int("sampleRate", int(format.SampleRate)),
		zap.Int("channels", format.NumChannels),
		zap.Int("framesPerBuffer", framesPerBuffer),
	)
	return s, nil
}

// Flush discards a partially gathered buffer.
func (s *Speaker) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = 0
	return nil
}

// Play starts the stream.
func (s *Speaker) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return errors.New("speaker: released")
	}
	if s.playing {
		return nil
	}
	if err := s.stream.Start(); err != nil {
		return errors.Wrap(err, "speaker: start stream")
	}
	s.playing = true
	return nil
}

// Stop stops the stream once any in-flight Write returns.
func (s *Speaker) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop()
}

func (s *Speaker) stop() error {
	if !s.playing {
		return nil
	}
	s.playing = false
	return errors.Wrap(s.stream.Stop(), "speaker: stop stream")
}

// Write copies block into the stream buffer, writing the buffer out each time it fills up.
func (s *Speaker) Write(block []int16) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return 0, ErrStopped
	}

	for _, sample := range block {
		for c := 0; c < s.format.NumChannels; c++ {
			s.buf[s.pos] = sample
			s.pos++
		}
		n++
		if s.pos == len(s.buf) {
			s.pos = 0
			if err := s.stream.Write(); err != nil {
				return n, errors.Wrap(err, "speaker: write")
			}
		}
	}
	return n, nil
}

// Release closes the stream and terminates PortAudio.
func (s *Speaker) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return nil
	}
	err := s.stop()
	if cerr := s.stream.Close(); cerr != nil && err == nil {
		err = errors.Wrap(cerr, "speaker: close stream")
	}
	s.stream = nil
	if terr := portaudio.Terminate(); terr != nil && err == nil {
		err = errors.Wrap(terr, "speaker: terminate")
	}
	return err
}

var _ tonestream.Sink = (*Speaker)(nil)
