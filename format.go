package tonestream

import "fmt"

// Format is the PCM format of a sink.
type Format struct {
	// SampleRate is the number of samples per second.
	SampleRate SampleRate

	// NumChannels is the number of channels. The value of 1 is mono, the value of 2 is stereo.
	// The samples are always interleaved.
	NumChannels int

	// Precision is the number of bytes used to encode a single sample. Only 2 is supported.
	Precision int
}

// DefaultFormat is mono 16-bit PCM at DefaultSampleRate.
var DefaultFormat = Format{
	SampleRate:  DefaultSampleRate,
	NumChannels: 1,
	Precision:   2,
}

// Width returns the number of bytes per one frame (all channels).
//
// This is equal to f.NumChannels * f.Precision.
func (f Format) Width() int {
	return f.NumChannels * f.Precision
}

// Validate reports whether f can be encoded.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("format: invalid sample rate: %d", f.SampleRate)
	}
	if f.NumChannels <= 0 {
		return fmt.Errorf("format: invalid number of channels: %d", f.NumChannels)
	}
	if f.Precision != 2 {
		return fmt.Errorf("format: unsupported precision: %d", f.Precision)
	}
	return nil
}

// EncodeBlock encodes the mono samples in block to p as little-endian signed frames, copying each
// sample into every channel. It returns the number of bytes written. p must hold at least
// len(block) * f.Width() bytes.
func (f Format) EncodeBlock(p []byte, block []int16) (n int) {
	if f.NumChannels <= 0 {
		panic(fmt.Errorf("format: encode: invalid number of channels: %d", f.NumChannels))
	}
	for _, s := range block {
		for c := 0; c < f.NumChannels; c++ {
			p[n] = byte(s)
			p[n+1] = byte(s >> 8)
			n += 2
		}
	}
	return n
}

// DecodeBlock decodes frames from p into block, keeping only the first channel of each frame. It
// returns the number of samples decoded, which is limited by both len(block) and the number of
// whole frames in p.
func (f Format) DecodeBlock(p []byte, block []int16) (n int) {
	if f.NumChannels <= 0 {
		panic(fmt.Errorf("format: decode: invalid number of channels: %d", f.NumChannels))
	}
	width := f.Width()
	for n < len(block) && len(p) >= width {
		block[n] = int16(uint16(p[0]) | uint16(p[1])<<8)
		p = p[width:]
		n++
	}
	return n
}
