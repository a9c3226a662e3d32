//go:build malgo
// +build malgo

package speaker

import (
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/faiface/tonestream"
	"github.com/faiface/tonestream/internal/metrics"
	"github.com/faiface/tonestream/internal/ringbuffer"
)

// Backend names the sound library this build plays through.
const Backend = "malgo"

// Speaker is a tonestream.Sink writing to the default output device through miniaudio.
//
// miniaudio pulls samples from a callback. Writes land in a ring buffer the callback drains, and
// a full ring blocks the writer.
type Speaker struct {
	format tonestream.Format
	log    *zap.Logger

	context *malgo.AllocatedContext
	device  *malgo.Device
	ring    *ringbuffer.RingBuffer

	mu      sync.Mutex
	playing bool
	samples []int16
}

// Open initializes the audio device for format with a buffer of bufferSize bytes.
func Open(format tonestream.Format, bufferSize int, opts ...Option) (*Speaker, error) {
	if err := checkFormat(format, bufferSize); err != nil {
		return nil, err
	}
	o := newOptions(opts)

	s := &Speaker{
		format: format,
		log:    o.log,
		ring:   ringbuffer.New(bufferSize / format.Width()),
	}

	var err error
	s.context, err = malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		s.log.Debug("malgo", zap.String("message", message))
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize speaker (context)")
	}

	deviceConfig, err := s.configure(o.device)
	if err != nil {
		s.context.Uninit()
		s.context.Free()
		return nil, errors.Wrap(err, "failed to initialize speaker (configure)")
	}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: s.onSamples,
	}
	s.device, err = malgo.InitDevice(s.context.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		s.context.Uninit()
		s.context.Free()
		return nil, errors.Wrap(err, "failed to initialize speaker (device)")
	}

	s.log.Debug("speaker opened",
		zap.String("backend", Backend),
		zap.String("device", o.device),
		zap.Int("sampleRate", int(format.SampleRate)),
		zap.Int("channels", format.NumChannels),
		zap.Int("bufferSize", bufferSize),
	)
	return s, nil
}

// configure builds the playback config, pointing it at the device called device unless that is
// empty.
func (s *Speaker) configure(device string) (malgo.DeviceConfig, error) {
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(s.format.NumChannels)
	deviceConfig.SampleRate = uint32(s.format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	if device == "" {
		return deviceConfig, nil
	}
	playbackDevices, err := s.context.Devices(malgo.Playback)
	if err != nil {
		return malgo.DeviceConfig{}, err
	}
	names := make([]string, len(playbackDevices))
	for i, d := range playbackDevices {
		names[i] = d.Name()
	}
	i, err := chooseDevice(names, device)
	if err != nil {
		return malgo.DeviceConfig{}, err
	}
	deviceConfig.Playback.DeviceID = playbackDevices[i].ID.Pointer()
	return deviceConfig, nil
}

// onSamples runs on miniaudio's thread. Missing samples are played as silence.
func (s *Speaker) onSamples(pOutputSample, pInputSamples []byte, framecount uint32) {
	frames := int(framecount)
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
	s.format.EncodeBlock(pOutputSample, s.samples[:frames])
}

// Flush drops buffered samples and reopens the ring after a Stop.
func (s *Speaker) Flush() error {
	s.ring.Reset()
	return nil
}

// Play starts the device.
func (s *Speaker) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.device == nil {
		return errors.New("speaker: released")
	}
	if s.playing {
		return nil
	}
	if err := s.device.Start(); err != nil {
		return errors.Wrap(err, "speaker: start device")
	}
	s.playing = true
	return nil
}

// Stop wakes a blocked Write and stops the device.
func (s *Speaker) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop()
}

func (s *Speaker) stop() error {
	s.ring.Close()
	if !s.playing {
		return nil
	}
	s.playing = false
	return errors.Wrap(s.device.Stop(), "speaker: stop device")
}

// Write blocks until block fits in the ring buffer.
func (s *Speaker) Write(block []int16) (n int, err error) {
	n, err = s.ring.Write(block)
	if err == ringbuffer.ErrClosed {
		return n, ErrStopped
	}
	return n, err
}

// Release stops and frees the device and its context.
func (s *Speaker) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.device == nil {
		return nil
	}
	err := s.stop()
	s.device.Uninit()
	s.device = nil
	if uerr := s.context.Uninit(); uerr != nil && err == nil {
		err = errors.Wrap(uerr, "speaker: release context")
	}
	s.context.Free()
	return err
}

var _ tonestream.Sink = (*Speaker)(nil)
