package pool

import (
	"io"
	"sync"
)

const (
	ScratchBufferDefaultSize  = 1024 * 128       // 128KiB, one nominal compression block
	ScratchBufferMaxThreshold = 1024 * 1024 * 8  // 8MiB
	StreamBufferDefaultSize   = 1024 * 64        // 64KiB
	StreamBufferMaxThreshold  = 1024 * 1024 * 64 // 64MiB
)

// ByteBuffer is a growable byte slice that supports both appends and
// positional writes.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes without reallocating.
//
// Small buffers grow by StreamBufferDefaultSize, larger ones by 25% of their
// current capacity, and never by less than requiredBytes.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := StreamBufferDefaultSize
	if cap(bb.B) > 4*StreamBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteAt writes data at offset off, extending the buffer with zeros when off
// lies past the current length.
func (bb *ByteBuffer) WriteAt(data []byte, off int64) (int, error) {
	if off < 0 {
		return 0, io.ErrShortWrite
	}
	end := int(off) + len(data)
	if end > len(bb.B) {
		bb.Grow(end - len(bb.B))
		prev := len(bb.B)
		bb.B = bb.B[:end]
		clear(bb.B[prev:end])
	}

	return copy(bb.B[off:], data), nil
}

// ReadAt implements io.ReaderAt over the written bytes.
func (bb *ByteBuffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(bb.B)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, bb.B[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers that discards buffers grown past
// maxThreshold instead of retaining them.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	scratchPool = NewByteBufferPool(ScratchBufferDefaultSize, ScratchBufferMaxThreshold)
	streamPool  = NewByteBufferPool(StreamBufferDefaultSize, StreamBufferMaxThreshold)
)

// GetScratchBuffer checks out a compression scratch buffer. The caller owns it
// exclusively until PutScratchBuffer.
func GetScratchBuffer() *ByteBuffer {
	return scratchPool.Get()
}

// PutScratchBuffer returns a scratch buffer to the pool.
func PutScratchBuffer(bb *ByteBuffer) {
	scratchPool.Put(bb)
}

// GetStreamBuffer checks out a buffer backing an in-memory writer.
func GetStreamBuffer() *ByteBuffer {
	return streamPool.Get()
}

// PutStreamBuffer returns a stream buffer to the pool.
func PutStreamBuffer(bb *ByteBuffer) {
	streamPool.Put(bb)
}
