// Package pulseaudio implements tonestream.Sink as a PulseAudio playback stream.
//
// It speaks the PulseAudio protocol directly and needs neither cgo nor libpulse.
package pulseaudio

import (
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/faiface/tonestream"
	"github.com/faiface/tonestream/internal/metrics"
	"github.com/faiface/tonestream/internal/ringbuffer"
)

// Backend is the metrics label for this sink.
const Backend = "pulse"

// ErrStopped is returned by Write when the stream isn't playing.
var ErrStopped = errors.New("pulseaudio: not playing")

// Sink feeds a PulseAudio playback stream.
//
// The server pulls samples when it needs them. Writes go into a ring buffer that the pull callback
// drains; a full ring blocks Write until the server has played enough.
type Sink struct {
	format tonestream.Format
	log    *zap.Logger

	client *pulse.Client
	stream *pulse.PlaybackStream
	ring   *ringbuffer.RingBuffer

	mu      sync.Mutex
	playing bool
	samples []int16
}

// Option configures Open.
type Option func(*Sink)

// WithLogger sets the logger used for stream diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(s *Sink) { s.log = log }
}

// Open connects to the PulseAudio server and creates a corked playback stream for format holding
// bufferSize bytes.
func Open(format tonestream.Format, bufferSize int, opts ...Option) (*Sink, error) {
	if err := format.Validate(); err != nil {
		return nil, errors.Wrap(err, "pulseaudio")
	}
	if format.NumChannels > 2 {
		return nil, errors.Errorf("pulseaudio: unsupported number of channels: %d", format.NumChannels)
	}
	frames := bufferSize / format.Width()
	if frames <= 0 {
		return nil, errors.Errorf("pulseaudio: buffer of %d bytes can't hold a single frame", bufferSize)
	}

	s := &Sink{
		format: format,
		log:    zap.NewNop(),
		ring:   ringbuffer.New(frames),
	}
	for _, opt := range opts {
		opt(s)
	}

	client, err := pulse.NewClient(pulse.ClientApplicationName("tonestream"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to pulseaudio")
	}

	channels := pulse.PlaybackMono
	if format.NumChannels == 2 {
		channels = pulse.PlaybackStereo
	}
	stream, err := client.NewPlayback(pulse.Int16Reader(s.read),
		channels,
		pulse.PlaybackSampleRate(int(format.SampleRate)),
		pulse.PlaybackLatency(format.SampleRate.D(frames).Seconds()),
	)
	if err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to create pulseaudio playback stream")
	}
	s.client = client
	s.stream = stream

	s.log.Debug("pulseaudio stream opened",
		zap.Int("sampleRate", stream.SampleRate()),
		zap.Int("channels", stream.Channels()),
		zap.Int("bufferSize", stream.BufferSize()),
	)
	return s, nil
}

// read runs on the client's goroutine and never blocks. Missing samples are played as silence.
func (s *Sink) read(out []int16) (int, error) {
	frames := len(out) / s.format.NumChannels
	if len(s.samples) < frames {
		s.samples = make([]int16, frames)
	}
	n := s.ring.Read(s.samples[:frames])
	if n < frames {
		for i := n; i < frames; i++ {
			s.samples[i] = 0
		}
		metrics.UnderrunsTotal.WithLabelValues(Backend).Inc()
	}
	for i, sample := range s.samples[:frames] {
		for c := 0; c < s.format.NumChannels; c++ {
			out[i*s.format.NumChannels+c] = sample
		}
	}
	return frames * s.format.NumChannels, nil
}

// Flush drops buffered samples and reopens the ring after a Stop.
func (s *Sink) Flush() error {
	s.ring.Reset()
	return nil
}

// Play uncorks the stream.
func (s *Sink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return errors.New("pulseaudio: released")
	}
	if !s.playing {
		s.stream.Start()
		s.playing = true
	}
	return s.stream.Error()
}

// Stop wakes a blocked Write and corks the stream.
func (s *Sink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop()
}

func (s *Sink) stop() error {
	s.ring.Close()
	if !s.playing {
		return nil
	}
	s.playing = false
	s.stream.Stop()
	if s.stream.Underflow() {
		s.log.Debug("pulseaudio stream underflowed during the session")
	}
	return s.stream.Error()
}

// Write blocks until block fits in the ring buffer.
func (s *Sink) Write(block []int16) (n int, err error) {
	n, err = s.ring.Write(block)
	if err == ringbuffer.ErrClosed {
		return n, ErrStopped
	}
	return n, err
}

// Release closes the stream and the server connection.
func (s *Sink) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return nil
	}
	err := s.stop()
	s.stream.Close()
	s.client.Close()
	s.stream = nil
	return errors.Wrap(err, "pulseaudio: release")
}

var _ tonestream.Sink = (*Sink)(nil)
