// Package stream provides the byte cursor every upkg codec is built on.
//
// A Stream is either reading or writing. Codecs are written once against the
// pointer based primitives and run unchanged in both directions: when reading
// the pointee is filled, when writing it is emitted.
//
//	func (g *Generation) Serialize(s *stream.Stream) {
//	    s.Int32(&g.ExportCount)
//	    s.Int32(&g.NameCount)
//	    s.Int32(&g.NetObjectCount)
//	}
//
// Errors are sticky. The first failure is recorded and returned by Err; every
// later primitive is a no-op, and reads leave their pointee untouched.
package stream

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"github.com/tera-toolbox/upkg/chunk"
	"github.com/tera-toolbox/upkg/endian"
	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/internal/pool"
)

var engine = endian.GetLittleEndianEngine()

// Stream is a positioned reader or writer over memory or a file.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	b       backing
	pos     int64
	reading bool
	err     error

	fileVersion     uint16
	licenseeVersion uint16

	decodeOpts []chunk.DecodeOption
	scratch    [8]byte
}

// NewReader returns a reading stream over data. The stream borrows data.
func NewReader(data []byte) *Stream {
	return &Stream{b: &sliceBacking{data: data}, reading: true}
}

// NewWriter returns a writing stream over a growable in-memory buffer. Close
// returns the buffer to its pool; copy Bytes out first.
func NewWriter() *Stream {
	return &Stream{b: &bufferBacking{buf: pool.GetStreamBuffer()}}
}

// OpenFile returns a reading stream over the file at path. The file is memory
// mapped when possible and must be released with Close.
func OpenFile(path string) (*Stream, error) {
	b, err := mapFile(path)
	if err != nil {
		return nil, err
	}

	return &Stream{b: b, reading: true}, nil
}

// CreateFile returns a writing stream that writes straight to path. The file
// is truncated and held under an exclusive advisory lock until Close.
func CreateFile(path string) (*Stream, error) {
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, fmt.Errorf("%s: locked by another writer", path)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	return &Stream{b: &fileBacking{f: f, lock: lock}}, nil
}

// IsReading reports whether the stream decodes into its arguments.
func (s *Stream) IsReading() bool { return s.reading }

// Position returns the absolute cursor position.
func (s *Stream) Position() int64 { return s.pos }

// Size returns the size of the backing store. For writers this is the highest
// offset written so far.
func (s *Stream) Size() int64 { return s.b.Size() }

// Remaining returns the number of bytes between the cursor and the end of the
// backing store.
func (s *Stream) Remaining() int64 {
	return max(s.b.Size()-s.pos, 0)
}

// SeekTo moves the cursor to an absolute position. Readers cannot move past the
// end of their data; writers zero-fill any gap on the next write.
func (s *Stream) SeekTo(pos int64) error {
	if s.err != nil {
		return s.err
	}
	if pos < 0 || (s.reading && pos > s.b.Size()) {
		return s.Fail(fmt.Errorf("%w: seek to %d, size %d", errs.ErrOutOfBounds, pos, s.b.Size()))
	}
	s.pos = pos

	return nil
}

// Skip advances the cursor by n bytes.
func (s *Stream) Skip(n int64) error {
	return s.SeekTo(s.pos + n)
}

// Err returns the first error recorded on the stream.
func (s *Stream) Err() error { return s.err }

// Fail records err unless an earlier error is already recorded, and returns
// the recorded error. Codecs layered on the stream use it to report format
// violations through the same sticky channel as I/O failures.
func (s *Stream) Fail(err error) error {
	if s.err == nil && err != nil {
		s.err = err
	}

	return s.err
}

// SetVersion sets the package version consulted by version gated codecs.
func (s *Stream) SetVersion(fileVersion, licenseeVersion uint16) {
	s.fileVersion = fileVersion
	s.licenseeVersion = licenseeVersion
}

// FileVersion returns the file version set by SetVersion.
func (s *Stream) FileVersion() uint16 { return s.fileVersion }

// LicenseeVersion returns the licensee version set by SetVersion.
func (s *Stream) LicenseeVersion() uint16 { return s.licenseeVersion }

// SetDecodeOptions sets the options used when compressed regions are read.
func (s *Stream) SetDecodeOptions(opts ...chunk.DecodeOption) {
	s.decodeOpts = opts
}

// Bytes returns the bytes of an in-memory stream: the borrowed data of a
// reader, or everything written so far by a writer. File streams return nil.
func (s *Stream) Bytes() []byte {
	switch b := s.b.(type) {
	case *sliceBacking:
		return b.data
	case *bufferBacking:
		if b.buf == nil {
			return nil
		}
		return b.buf.Bytes()
	default:
		return nil
	}
}

// Close releases the backing store.
func (s *Stream) Close() error {
	if s.b == nil {
		return nil
	}
	err := s.b.Close()
	s.b = &sliceBacking{}

	return err
}

// read fills p from the cursor. On failure p is left as it was.
func (s *Stream) read(p []byte) bool {
	if s.err != nil {
		return false
	}
	if int64(len(p)) > s.Remaining() {
		s.Fail(fmt.Errorf("%w: read %d bytes at %d, size %d", errs.ErrOutOfBounds, len(p), s.pos, s.b.Size()))
		return false
	}

	n, err := s.b.ReadAt(p, s.pos)
	if n < len(p) {
		s.Fail(fmt.Errorf("%w: read %d bytes at %d: %v", errs.ErrOutOfBounds, len(p), s.pos, err))
		return false
	}
	s.pos += int64(n)

	return true
}

// view returns the next n bytes without copying when the backing store is a
// byte slice, and advances the cursor.
func (s *Stream) view(n int) ([]byte, bool) {
	if b, ok := s.b.(*sliceBacking); ok && s.err == nil {
		if int64(n) > s.Remaining() {
			s.Fail(fmt.Errorf("%w: read %d bytes at %d, size %d", errs.ErrOutOfBounds, n, s.pos, s.b.Size()))
			return nil, false
		}
		p := b.data[s.pos : s.pos+int64(n)]
		s.pos += int64(n)
		return p, true
	}

	p := make([]byte, n)
	return p, s.read(p)
}

func (s *Stream) write(p []byte) bool {
	if s.err != nil {
		return false
	}
	if s.reading {
		s.Fail(fmt.Errorf("%w: write on a reading stream", errs.ErrWrongMode))
		return false
	}

	n, err := s.b.WriteAt(p, s.pos)
	s.pos += int64(n)
	if err != nil {
		s.Fail(err)
		return false
	}

	return true
}
