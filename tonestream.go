// Package tonestream plays a continuously generated sine tone whose frequency can be changed
// while it plays.
//
// The package itself holds the shared vocabulary: sample rates, the PCM Format, the supported
// frequency range and the Sink interface that every audio backend implements. Tone generation
// lives in the generators package and the streaming loop in the player package.
package tonestream

import (
	"math"
	"time"
)

const (
	// MinFrequency is the lowest frequency in Hz the player accepts.
	MinFrequency = 220.0

	// MaxFrequency is the highest frequency in Hz the player accepts.
	MaxFrequency = 660.0

	// DefaultSampleRate is the sample rate used when none is configured.
	DefaultSampleRate SampleRate = 44100
)

// SampleRate is the number of samples per second.
type SampleRate int

// D returns the duration of n samples.
func (sr SampleRate) D(n int) time.Duration {
	return time.Second * time.Duration(n) / time.Duration(sr)
}

// N returns the number of samples that last for d duration.
func (sr SampleRate) N(d time.Duration) int {
	return int(d * time.Duration(sr) / time.Second)
}

// Clamp limits hz to [MinFrequency, MaxFrequency]. NaN maps to MinFrequency.
func Clamp(hz float64) float64 {
	if math.IsNaN(hz) {
		return MinFrequency
	}
	return math.Max(MinFrequency, math.Min(MaxFrequency, hz))
}

// SliderFrequency maps a slider position in [0, 100] to a whole frequency in Hz. Positions outside
// the range are clamped.
func SliderFrequency(p int) float64 {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return math.Round((MaxFrequency-MinFrequency)*(float64(p)/100) + MinFrequency)
}
