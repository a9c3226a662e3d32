package generators

import (
	"math"

	"github.com/faiface/tonestream"
)

const amplitude = math.MaxInt16

// Increment returns how far the phase, in radians, advances per sample of a freq Hz tone.
func Increment(freq float64, sr tonestream.SampleRate) float64 {
	return 2 * math.Pi * freq / float64(sr)
}

// Sine fills block with a sine wave of the given frequency starting at phase, and returns the
// phase following the last sample.
//
// Each sample is round(sin(phase) * 32767). The phase is advanced by repeated addition and never
// wrapped, so feeding the returned phase into the next call continues the wave exactly as a
// single longer call would.
func Sine(phase, freq float64, sr tonestream.SampleRate, block []int16) float64 {
	dt := Increment(freq, sr)
	for i := range block {
		block[i] = int16(math.Round(math.Sin(phase) * amplitude))
		phase += dt
	}
	return phase
}

// Tone is a sine generator that remembers its phase between blocks.
//
// The zero value is not usable, create a Tone with NewTone.
type Tone struct {
	sr    tonestream.SampleRate
	phase float64
}

// NewTone returns a Tone at phase zero.
func NewTone(sr tonestream.SampleRate) *Tone {
	return &Tone{sr: sr}
}

// Next fills block with the continuation of the wave at frequency freq.
//
// Between blocks the phase is reduced modulo 2π so precision holds over long sessions. The
// reduction only subtracts whole periods.
func (t *Tone) Next(freq float64, block []int16) {
	t.phase = math.Mod(Sine(t.phase, freq, t.sr, block), 2*math.Pi)
}

// Reset moves the phase back to zero. The next block starts with a zero sample.
func (t *Tone) Reset() {
	t.phase = 0
}

// Phase returns the phase the next block starts at.
func (t *Tone) Phase() float64 {
	return t.phase
}
