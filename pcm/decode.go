package pcm

import (
	"io"

	"github.com/pkg/errors"

	"github.com/faiface/tonestream"
)

// Decode reads raw PCM in format from r until EOF and returns the first channel of every frame.
// A trailing partial frame is dropped.
func Decode(r io.Reader, format tonestream.Format) ([]int16, error) {
	if err := format.Validate(); err != nil {
		return nil, errors.Wrap(err, "pcm")
	}
	var (
		samples []int16
		buf     = make([]byte, 512*format.Width())
		block   = make([]int16, 512)
		pending int
	)
	for {
		nbytes, err := r.Read(buf[pending:])
		pending += nbytes
		n := format.DecodeBlock(buf[:pending], block)
		samples = append(samples, block[:n]...)

		// move a partial frame to the beginning of the buffer
		used := n * format.Width()
		pending = copy(buf, buf[used:pending])

		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return samples, errors.Wrap(err, "pcm: decode")
		}
	}
}
