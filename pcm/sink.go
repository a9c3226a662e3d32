// Package pcm implements a tonestream.Sink that writes raw little-endian PCM to an io.Writer.
//
// Pipe it into a player that reads raw audio, for example:
//
//	tone-player -backend pcm | aplay -f S16_LE -r 44100 -c 1
package pcm

import (
	"bufio"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/faiface/tonestream"
)

// ErrStopped is returned by Write when the sink isn't playing.
var ErrStopped = errors.New("pcm: not playing")

// Sink encodes blocks and writes them to w. It's paced by however fast w accepts data.
type Sink struct {
	format tonestream.Format

	mu      sync.Mutex
	w       io.Writer
	bw      *bufio.Writer
	buffer  []byte
	playing bool
}

// NewSink returns a stopped Sink writing format frames to w, buffering up to bufferSize bytes.
func NewSink(w io.Writer, format tonestream.Format, bufferSize int) (*Sink, error) {
	if err := format.Validate(); err != nil {
		return nil, errors.Wrap(err, "pcm")
	}
	if bufferSize < format.Width() {
		return nil, errors.Errorf("pcm: buffer of %d bytes can't hold a single frame", bufferSize)
	}
	return &Sink{
		format: format,
		w:      w,
		bw:     bufio.NewWriterSize(w, bufferSize),
	}, nil
}

// Flush discards buffered bytes that haven't reached the writer.
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bw.Reset(s.w)
	return nil
}

// Play starts accepting writes.
func (s *Sink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = true
	return nil
}

// Stop pushes buffered bytes to the writer and rejects further writes.
func (s *Sink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return nil
	}
	s.playing = false
	return errors.Wrap(s.bw.Flush(), "pcm: stop")
}

// Write encodes block into the buffer, writing through to w when it fills.
func (s *Sink) Write(block []int16) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return 0, ErrStopped
	}

	size := len(block) * s.format.Width()
	if len(s.buffer) < size {
		s.buffer = make([]byte, size)
	}
	s.format.EncodeBlock(s.buffer, block)
	written, err := s.bw.Write(s.buffer[:size])
	return written / s.format.Width(), errors.Wrap(err, "pcm: write")
}

// Release flushes buffered bytes and closes w if it is an io.Closer.
func (s *Sink) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	err := s.bw.Flush()
	if c, ok := s.w.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return errors.Wrap(err, "pcm: release")
}

var _ tonestream.Sink = (*Sink)(nil)
