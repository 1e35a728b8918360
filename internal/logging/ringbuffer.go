package logging

import (
	"bytes"
	"os"
	"sync"
)

// RingBuffer is an io.Writer that remembers only the most recent bytes
// written to it. It backs the SIGUSR1 crash dump.
type RingBuffer struct {
	mu    sync.Mutex
	data  []byte
	total int64 // bytes ever written; total % len(data) is the write offset
}

// NewRingBuffer creates a ring buffer holding at most size bytes.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = 1024 * 1024
	}
	return &RingBuffer{data: make([]byte, size)}
}

// Write never fails; the oldest bytes are overwritten.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := len(p)
	if over := n - len(rb.data); over > 0 {
		rb.total += int64(over)
		p = p[over:]
	}
	for len(p) > 0 {
		c := copy(rb.data[rb.offset():], p)
		rb.total += int64(c)
		p = p[c:]
	}
	return n, nil
}

func (rb *RingBuffer) offset() int {
	return int(rb.total % int64(len(rb.data)))
}

// Len returns the number of buffered bytes.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return int(min(rb.total, int64(len(rb.data))))
}

// Bytes returns the buffered data oldest first.
func (rb *RingBuffer) Bytes() []byte {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.total <= int64(len(rb.data)) {
		return bytes.Clone(rb.data[:rb.total])
	}
	off := rb.offset()
	out := make([]byte, 0, len(rb.data))
	out = append(out, rb.data[off:]...)
	return append(out, rb.data[:off]...)
}

// DumpToFile writes the buffered records to path. Once the buffer has
// wrapped, the first record is usually cut in half and is dropped so the
// dump stays one JSON object per line.
func (rb *RingBuffer) DumpToFile(path string) error {
	rb.mu.Lock()
	wrapped := rb.total > int64(len(rb.data))
	rb.mu.Unlock()

	data := rb.Bytes()
	if wrapped {
		if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
			data = data[nl+1:]
		}
	}
	return os.WriteFile(path, data, 0o644)
}
