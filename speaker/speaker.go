// Package speaker implements tonestream.Sink on top of the platform's sound output.
//
// The default build plays through oto. Build with the malgo tag to use miniaudio instead, or with
// the portaudio tag to use PortAudio's blocking stream API. All three share this API.
package speaker

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/faiface/tonestream"
)

// ErrStopped is returned by Write when the speaker isn't playing.
var ErrStopped = errors.New("speaker: not playing")

// ErrDeviceSelection is returned by Open when a device is requested from a build that always plays
// through the default device. Only the malgo build can pick devices.
var ErrDeviceSelection = errors.New("speaker: device selection needs the malgo build tag")

type options struct {
	log    *zap.Logger
	device string
}

// Option configures Open.
type Option func(*options)

// WithLogger routes driver messages to log.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithDevice plays through the output device called name instead of the default one. An empty name
// means the default device.
func WithDevice(name string) Option {
	return func(o *options) { o.device = name }
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// MinBufferSize returns the smallest buffer, in bytes, that plays format without underruns on a
// typical desktop: one 30th of a second.
//
// Pass it through tonestream.BufferSize before calling Open.
func MinBufferSize(format tonestream.Format) int {
	return format.SampleRate.N(time.Second/30) * format.Width()
}

func checkFormat(format tonestream.Format, bufferSize int) error {
	if err := format.Validate(); err != nil {
		return errors.Wrap(err, "speaker")
	}
	if bufferSize < format.Width() {
		return errors.Errorf("speaker: buffer of %d bytes can't hold a single frame", bufferSize)
	}
	return nil
}

// chooseDevice returns the index of the device called want in names.
func chooseDevice(names []string, want string) (int, error) {
	for i, name := range names {
		if name == want {
			return i, nil
		}
	}
	return -1, errors.Errorf("speaker: no output device named %q (available: %q)", want, names)
}
