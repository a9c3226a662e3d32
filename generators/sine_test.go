package generators_test

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/faiface/tonestream"
	"github.com/faiface/tonestream/generators"
)

func TestSineSamples(t *testing.T) {
	for i := 0; i < 50; i++ {
		var (
			phase = rand.Float64()*200 - 100
			freq  = rand.Float64()*(tonestream.MaxFrequency-tonestream.MinFrequency) + tonestream.MinFrequency
			sr    = []tonestream.SampleRate{8000, 22050, 44100, 48000}[rand.Intn(4)]
			block = make([]int16, rand.Intn(2000)+1)
		)
		next := generators.Sine(phase, freq, sr, block)

		dt := 2 * math.Pi * freq / float64(sr)
		for j, got := range block {
			want := math.Round(math.Sin(phase+float64(j)*dt) * 32767)
			if math.Abs(float64(got)-want) > 1 {
				t.Fatalf("sample %d: expected %v, got %v (phase %v, freq %v, rate %v)", j, want, got, phase, freq, sr)
			}
		}

		wantNext := phase + float64(len(block))*dt
		if math.Abs(next-wantNext) > 1e-6 {
			t.Errorf("expected returned phase %v, got %v", wantNext, next)
		}
	}
}

func TestSineStartsAtZero(t *testing.T) {
	block := make([]int16, 4)
	generators.Sine(0, 440, 44100, block)
	if block[0] != 0 {
		t.Errorf("expected first sample 0, got %d", block[0])
	}
	quarter := make([]int16, 1)
	generators.Sine(math.Pi/2, 440, 44100, quarter)
	if quarter[0] != math.MaxInt16 {
		t.Errorf("expected peak %d, got %d", math.MaxInt16, quarter[0])
	}
}

func TestSineChaining(t *testing.T) {
	for i := 0; i < 20; i++ {
		var (
			phase = rand.Float64() * 2 * math.Pi
			freq  = rand.Float64()*440 + 220
			n     = rand.Intn(1000) + 1
		)

		whole := make([]int16, 2*n)
		wantPhase := generators.Sine(phase, freq, 44100, whole)

		first := make([]int16, n)
		second := make([]int16, n)
		mid := generators.Sine(phase, freq, 44100, first)
		gotPhase := generators.Sine(mid, freq, 44100, second)

		if !reflect.DeepEqual(whole, append(first, second...)) {
			t.Fatalf("chained blocks differ from a single block (freq %v, n %d)", freq, n)
		}
		if gotPhase != wantPhase {
			t.Errorf("expected phase %v after chaining, got %v", wantPhase, gotPhase)
		}
	}
}

func TestToneContinuity(t *testing.T) {
	const n = 100
	tone := generators.NewTone(44100)

	whole := make([]int16, 50*n)
	generators.Sine(0, 523, 44100, whole)

	var got []int16
	block := make([]int16, n)
	for i := 0; i < 50; i++ {
		tone.Next(523, block)
		got = append(got, block...)
		if p := tone.Phase(); p < 0 || p >= 2*math.Pi {
			t.Fatalf("phase %v not reduced to [0, 2π)", p)
		}
	}

	for i := range whole {
		if d := int(whole[i]) - int(got[i]); d < -1 || d > 1 {
			t.Fatalf("sample %d: expected %d, got %d", i, whole[i], got[i])
		}
	}
}

func TestToneReset(t *testing.T) {
	tone := generators.NewTone(44100)
	block := make([]int16, 37)
	tone.Next(660, block)
	if tone.Phase() == 0 {
		t.Fatal("phase did not advance")
	}
	tone.Reset()
	tone.Next(660, block)
	if block[0] != 0 {
		t.Errorf("expected first sample after reset to be 0, got %d", block[0])
	}
}
