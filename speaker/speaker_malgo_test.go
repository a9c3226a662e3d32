//go:build malgo
// +build malgo

package speaker

import (
	"reflect"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/faiface/tonestream"
	"github.com/faiface/tonestream/internal/metrics"
	"github.com/faiface/tonestream/internal/ringbuffer"
)

func TestOnSamplesDuplicatesChannels(t *testing.T) {
	format := tonestream.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	s := &Speaker{format: format, ring: ringbuffer.New(16)}
	s.ring.Write([]int16{0x0102, -2})

	underruns := promtest.ToFloat64(metrics.UnderrunsTotal.WithLabelValues(Backend))
	out := make([]byte, 2*format.Width())
	s.onSamples(out, nil, 2)

	want := []byte{0x02, 0x01, 0x02, 0x01, 0xfe, 0xff, 0xfe, 0xff}
	if !reflect.DeepEqual(want, out) {
		t.Errorf("expected % x, got % x", want, out)
	}
	if got := promtest.ToFloat64(metrics.UnderrunsTotal.WithLabelValues(Backend)); got != underruns {
		t.Errorf("a full callback counted an underrun: %v -> %v", underruns, got)
	}
}

func TestOnSamplesUnderrun(t *testing.T) {
	format := tonestream.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	s := &Speaker{format: format, ring: ringbuffer.New(16)}
	s.ring.Write([]int16{5, 6})

	underruns := promtest.ToFloat64(metrics.UnderrunsTotal.WithLabelValues(Backend))
	out := make([]byte, 3*format.Width())
	for i := range out {
		out[i] = 0xaa
	}
	s.onSamples(out, nil, 3)

	want := []byte{5, 0, 5, 0, 6, 0, 6, 0, 0, 0, 0, 0}
	if !reflect.DeepEqual(want, out) {
		t.Errorf("expected % x, got % x", want, out)
	}
	if got := promtest.ToFloat64(metrics.UnderrunsTotal.WithLabelValues(Backend)); got != underruns+1 {
		t.Errorf("expected one more underrun, got %v -> %v", underruns, got)
	}
}
