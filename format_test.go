package tonestream_test

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/faiface/tonestream"
)

func TestFormatEncodeDecode(t *testing.T) {
	formats := make(chan tonestream.Format)
	go func() {
		defer close(formats)
		for _, sampleRate := range []tonestream.SampleRate{8000, 22050, 44100, 48000} {
			for _, numChannels := range []int{1, 2, 3, 4} {
				formats <- tonestream.Format{
					SampleRate:  sampleRate,
					NumChannels: numChannels,
					Precision:   2,
				}
			}
		}
	}()

	for format := range formats {
		block := make([]int16, rand.Intn(500)+1)
		for i := range block {
			block[i] = int16(rand.Intn(math.MaxUint16) + math.MinInt16)
		}
		block[0] = math.MinInt16
		if len(block) > 1 {
			block[1] = math.MaxInt16
		}

		tmp := make([]byte, len(block)*format.Width())
		if n := format.EncodeBlock(tmp, block); n != len(tmp) {
			t.Fatalf("encoded %d bytes, expected %d (NumChannels: %v)", n, len(tmp), format.NumChannels)
		}

		decoded := make([]int16, len(block))
		if n := format.DecodeBlock(tmp, decoded); n != len(block) {
			t.Fatalf("decoded %d samples, expected %d (NumChannels: %v)", n, len(block), format.NumChannels)
		}
		if !reflect.DeepEqual(block, decoded) {
			t.Fatalf("decoded block differs from encoded block (NumChannels: %v)", format.NumChannels)
		}
	}
}

func TestFormatEncodeDuplicatesChannels(t *testing.T) {
	format := tonestream.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	tmp := make([]byte, 2*format.Width())
	format.EncodeBlock(tmp, []int16{0x0102, -2})

	want := []byte{0x02, 0x01, 0x02, 0x01, 0xfe, 0xff, 0xfe, 0xff}
	if !reflect.DeepEqual(want, tmp) {
		t.Errorf("expected % x, got % x", want, tmp)
	}
}

func TestFormatDecodePartialFrame(t *testing.T) {
	format := tonestream.DefaultFormat
	block := make([]int16, 4)
	if n := format.DecodeBlock([]byte{1, 0, 2, 0, 3}, block); n != 2 {
		t.Errorf("expected 2 whole samples, got %d", n)
	}
}

func TestFormatValidate(t *testing.T) {
	if err := tonestream.DefaultFormat.Validate(); err != nil {
		t.Errorf("default format rejected: %v", err)
	}
	bad := []tonestream.Format{
		{SampleRate: 0, NumChannels: 1, Precision: 2},
		{SampleRate: 44100, NumChannels: 0, Precision: 2},
		{SampleRate: 44100, NumChannels: 1, Precision: 3},
	}
	for _, f := range bad {
		if err := f.Validate(); err == nil {
			t.Errorf("format %+v should be rejected", f)
		}
	}
}
