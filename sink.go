package tonestream

// MinBufferBytes is the floor for a sink's buffer size. Smaller platform minimums underrun too easily.
const MinBufferBytes = 8192

// Sink is an audio output that accepts blocks of mono 16-bit PCM.
//
// Write blocks until the sink has room for the block, which paces the caller. Only one goroutine
// writes at a time; Stop may be called concurrently with a blocked Write and must let it return.
type Sink interface {
	// Flush drops any samples buffered but not yet played.
	Flush() error

	// Play starts (or resumes) playback.
	Play() error

	// Stop halts playback.
	Stop() error

	// Write hands block to the sink and returns the number of samples accepted.
	Write(block []int16) (n int, err error)

	// Release frees the underlying device. The sink can't be used afterwards.
	Release() error
}

// BufferSize returns the sink buffer size in bytes to use given the platform's minimum.
func BufferSize(min int) int {
	if min < MinBufferBytes {
		return MinBufferBytes
	}
	return min
}
