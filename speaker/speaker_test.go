package speaker

import (
	"strings"
	"testing"

	"github.com/faiface/tonestream"
)

func TestChooseDevice(t *testing.T) {
	names := []string{"Built-in Audio", "HDMI Output", "USB Headset"}

	i, err := chooseDevice(names, "HDMI Output")
	if err != nil {
		t.Fatal(err)
	}
	if i != 1 {
		t.Errorf("expected index 1, got %d", i)
	}

	_, err = chooseDevice(names, "Bluetooth")
	if err == nil {
		t.Fatal("expected an error for an unknown device")
	}
	for _, name := range names {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should list available device %q", err, name)
		}
	}
}

func TestMinBufferSize(t *testing.T) {
	mono := tonestream.Format{SampleRate: 44100, NumChannels: 1, Precision: 2}
	stereo := tonestream.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

	// A 30th of a second at 44.1kHz is 1469 whole frames.
	if got := MinBufferSize(mono); got != 1469*2 {
		t.Errorf("expected %d bytes for mono, got %d", 1469*2, got)
	}
	if got := MinBufferSize(stereo); got != 1469*4 {
		t.Errorf("expected %d bytes for stereo, got %d", 1469*4, got)
	}
}
