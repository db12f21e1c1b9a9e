package stream

import (
	"fmt"
	"io"
	"os"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"github.com/tera-toolbox/upkg/internal/pool"
)

// backing is the byte store beneath a Stream.
type backing interface {
	io.ReaderAt
	io.WriterAt
	Size() int64
	Close() error
}

// sliceBacking serves reads from a fixed byte slice, either caller-owned or
// memory mapped.
type sliceBacking struct {
	data    []byte
	mmapped bool
}

func (b *sliceBacking) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (b *sliceBacking) WriteAt([]byte, int64) (int, error) {
	return 0, os.ErrPermission
}

func (b *sliceBacking) Size() int64 { return int64(len(b.data)) }

func (b *sliceBacking) Close() error {
	if b.mmapped && b.data != nil {
		err := unix.Munmap(b.data)
		b.data = nil
		return err
	}
	b.data = nil

	return nil
}

// bufferBacking is a growable in-memory store checked out of the stream pool.
type bufferBacking struct {
	buf *pool.ByteBuffer
}

func (b *bufferBacking) ReadAt(p []byte, off int64) (int, error) {
	return b.buf.ReadAt(p, off)
}

func (b *bufferBacking) WriteAt(p []byte, off int64) (int, error) {
	return b.buf.WriteAt(p, off)
}

func (b *bufferBacking) Size() int64 { return int64(b.buf.Len()) }

func (b *bufferBacking) Close() error {
	if b.buf != nil {
		pool.PutStreamBuffer(b.buf)
		b.buf = nil
	}

	return nil
}

// fileBacking writes straight to a file held under an exclusive lock.
type fileBacking struct {
	f    *os.File
	lock *flock.Flock
	size int64
}

func (b *fileBacking) ReadAt(p []byte, off int64) (int, error) {
	return b.f.ReadAt(p, off)
}

func (b *fileBacking) WriteAt(p []byte, off int64) (int, error) {
	n, err := b.f.WriteAt(p, off)
	if end := off + int64(n); end > b.size {
		b.size = end
	}

	return n, err
}

func (b *fileBacking) Size() int64 { return b.size }

func (b *fileBacking) Close() error {
	err := b.f.Close()
	if uerr := b.lock.Unlock(); err == nil {
		err = uerr
	}

	return err
}

// mapFile maps path read-only. When mmap is unavailable the file is read into
// memory with ReadAt instead.
func mapFile(path string) (*sliceBacking, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%s: file too large to map", path)
	}
	size := int(size64)
	if size == 0 {
		return &sliceBacking{data: []byte{}}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return &sliceBacking{data: data, mmapped: true}, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}

	return &sliceBacking{data: data}, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}

	return out, nil
}
