package serial

import (
	"bytes"
	"io"
	"sync"
)

// Loopback is an in-memory Port: whatever one side writes, the other side
// reads. Stands in for a real device in tests.
type Loopback struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

// NewLoopback returns an open loopback port.
func NewLoopback() *Loopback {
	return &Loopback{}
}

func (l *Loopback) Read(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buf.Len() == 0 {
		if l.closed {
			return 0, io.EOF
		}
		return 0, nil
	}
	return l.buf.Read(b)
}

func (l *Loopback) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, io.ErrClosedPipe
	}
	return l.buf.Write(b)
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

func (l *Loopback) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Reset()
	return nil
}

var _ Port = (*Loopback)(nil)
