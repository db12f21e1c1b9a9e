package stream

import (
	"fmt"

	"github.com/tera-toolbox/upkg/chunk"
	"github.com/tera-toolbox/upkg/compress"
	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/format"
)

// SerializeCompressed transfers buf as a chunked compressed region. When
// reading, the chunk at the cursor must decompress to exactly len(buf) bytes.
// When writing, buf is compressed in blocks of chunk.DefaultBlockSize.
func (s *Stream) SerializeCompressed(buf []byte, flags format.CompressionFlags) {
	if s.err != nil {
		return
	}

	codec, err := compress.GetBlockCodec(flags)
	if err != nil {
		s.Fail(err)
		return
	}

	if !s.reading {
		encoded, err := chunk.Encode(buf, codec, chunk.DefaultBlockSize)
		if err != nil {
			s.Fail(err)
			return
		}
		s.write(encoded)
		return
	}

	start := s.pos
	head, ok := s.view(chunk.HeaderSize)
	if !ok {
		return
	}
	h, err := chunk.ParseHeader(head)
	if err != nil {
		s.Fail(fmt.Errorf("compressed region at %d: %w", start, err))
		return
	}
	if int(h.DecompressedSize) != len(buf) {
		s.Fail(&errs.SizeMismatchError{Field: "compressed region", Got: int64(h.DecompressedSize), Want: int64(len(buf))})
		return
	}

	s.pos = start
	if int64(h.StreamSize()) > s.Remaining() {
		s.Fail(fmt.Errorf("%w: compressed region of %d bytes at %d", errs.ErrOutOfBounds, h.StreamSize(), start))
		return
	}
	src, ok := s.view(h.StreamSize())
	if !ok {
		return
	}

	if _, err := chunk.Decode(src, buf, codec, s.decodeOpts...); err != nil {
		s.Fail(fmt.Errorf("compressed region at %d: %w", start, err))
	}
}
