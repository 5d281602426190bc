package dbf

import (
	"errors"
	"io"
)

// Buffer is an in-memory Stream. The zero value is an empty buffer.
type Buffer struct {
	buf []byte
	off int64
}

// NewBuffer returns a Buffer holding b. The buffer takes ownership of b.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{buf: b}
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

func (b *Buffer) Read(p []byte) (int, error) {
	if b.off >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.off:])
	b.off += int64(n)
	return n, nil
}

func (b *Buffer) Write(p []byte) (int, error) {
	end := b.off + int64(len(p))
	if end > int64(len(b.buf)) {
		if end > int64(cap(b.buf)) {
			grown := make([]byte, end, 2*end)
			copy(grown, b.buf)
			b.buf = grown
		} else {
			b.buf = b.buf[:end]
		}
	}
	copy(b.buf[b.off:], p)
	b.off = end
	return len(p), nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.off + offset
	case io.SeekEnd:
		abs = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("dbf: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("dbf: negative position")
	}
	b.off = abs
	return abs, nil
}

// Close is a no-op; the contents stay available through Bytes.
func (b *Buffer) Close() error {
	return nil
}
