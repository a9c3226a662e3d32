package ringbuffer

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrClosed is returned by Write once the buffer has been closed.
var ErrClosed = errors.New("ringbuffer: closed")

// RingBuffer is a fixed-size circular buffer of mono PCM samples between one writer and one reader.
//
// Write blocks while the buffer is full, which gives a pull-based audio device the blocking write
// the player expects. Read never blocks, so it is safe to call from an audio callback.
type RingBuffer struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	buf      []int16
	readPos  int
	length   int
	closed   bool
	capacity int
}

// New creates a ring buffer that holds size samples.
func New(size int) *RingBuffer {
	if size <= 0 {
		panic("ringbuffer: size must be positive")
	}
	rb := &RingBuffer{
		buf:      make([]int16, size),
		capacity: size,
	}
	rb.notFull = sync.NewCond(&rb.mu)
	return rb
}

// Write appends data, blocking until all of it fits or the buffer is closed. It returns the number
// of samples written.
func (rb *RingBuffer) Write(data []int16) (n int, err error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for len(data) > 0 {
		for rb.length == rb.capacity && !rb.closed {
			rb.notFull.Wait()
		}
		if rb.closed {
			return n, ErrClosed
		}

		writePos := (rb.readPos + rb.length) % rb.capacity
		end := rb.capacity
		if writePos < rb.readPos {
			end = rb.readPos
		}
		if free := rb.capacity - rb.length; end-writePos > free {
			end = writePos + free
		}
		m := copy(rb.buf[writePos:end], data)
		data = data[m:]
		rb.length += m
		n += m
	}
	return n, nil
}

// Read copies up to len(out) buffered samples into out and returns how many it copied. Samples past
// that count are left untouched.
func (rb *RingBuffer) Read(out []int16) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := 0
	for n < len(out) && rb.length > 0 {
		end := rb.readPos + rb.length
		if end > rb.capacity {
			end = rb.capacity
		}
		m := copy(out[n:], rb.buf[rb.readPos:end])
		rb.readPos = (rb.readPos + m) % rb.capacity
		rb.length -= m
		n += m
	}
	if n > 0 {
		rb.notFull.Broadcast()
	}
	return n
}

// Reset discards all buffered samples and reopens a closed buffer.
func (rb *RingBuffer) Reset() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.readPos = 0
	rb.length = 0
	rb.closed = false
	rb.notFull.Broadcast()
}

// Close wakes any blocked writer. Further writes fail with ErrClosed until Reset.
func (rb *RingBuffer) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.closed = true
	rb.notFull.Broadcast()
}

// Len returns the number of buffered samples.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.length
}

// Cap returns the capacity in samples.
func (rb *RingBuffer) Cap() int {
	return rb.capacity
}
