// Package chunk implements the chunked compression stream used by package
// files for compressed bodies and compressed bulk payloads.
//
// A chunk is laid out as:
//
//	Magic(4) BlockSize(4) CompressedSize(4) DecompressedSize(4)
//	N x { CompressedSize(4) DecompressedSize(4) }
//	compressed block bytes, concatenated
//
// where N = ceil(DecompressedSize / BlockSize). Blocks share no dictionary
// state and are decoded independently.
package chunk

import (
	"fmt"

	"github.com/tera-toolbox/upkg/endian"
	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/format"
)

const (
	// HeaderSize is the size of the fixed chunk header.
	HeaderSize = 16
	// BlockEntrySize is the size of one block directory entry.
	BlockEntrySize = 8
	// DefaultBlockSize is the nominal block size written by the engine.
	DefaultBlockSize = 0x20000
)

var engine = endian.GetLittleEndianEngine()

// Header is the fixed 16-byte chunk header.
type Header struct {
	Magic            uint32
	BlockSize        uint32
	CompressedSize   uint32
	DecompressedSize uint32
}

// Block locates one compressed unit. SrcOffset is relative to the start of the
// chunk header, DstOffset to the start of the decompressed output.
type Block struct {
	SrcOffset int
	SrcSize   int
	DstOffset int
	DstSize   int
}

// BlockCount returns ceil(total / blockSize), or 0 when blockSize is 0.
func BlockCount(total, blockSize uint32) int {
	if blockSize == 0 {
		return 0
	}

	return int((uint64(total) + uint64(blockSize) - 1) / uint64(blockSize))
}

// ParseHeader decodes and validates the chunk header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: chunk header needs %d bytes, got %d", errs.ErrMalformedHeader, HeaderSize, len(data))
	}

	h := Header{
		Magic:            engine.Uint32(data[0:4]),
		BlockSize:        engine.Uint32(data[4:8]),
		CompressedSize:   engine.Uint32(data[8:12]),
		DecompressedSize: engine.Uint32(data[12:16]),
	}
	if h.Magic != format.PackageMagic {
		return Header{}, fmt.Errorf("%w: chunk magic 0x%08X", errs.ErrMalformedHeader, h.Magic)
	}
	if h.BlockSize == 0 && h.DecompressedSize != 0 {
		return Header{}, fmt.Errorf("%w: zero block size", errs.ErrMalformedHeader)
	}

	return h, nil
}

// NumBlocks returns the number of directory entries following the header.
func (h Header) NumBlocks() int {
	return BlockCount(h.DecompressedSize, h.BlockSize)
}

// DirectorySize returns the size of the header plus the block directory.
func (h Header) DirectorySize() int {
	return HeaderSize + h.NumBlocks()*BlockEntrySize
}

// StreamSize returns the total encoded size of the chunk.
func (h Header) StreamSize() int {
	return h.DirectorySize() + int(h.CompressedSize)
}

// AppendTo appends the encoded header to dst.
func (h Header) AppendTo(dst []byte) []byte {
	dst = engine.AppendUint32(dst, h.Magic)
	dst = engine.AppendUint32(dst, h.BlockSize)
	dst = engine.AppendUint32(dst, h.CompressedSize)

	return engine.AppendUint32(dst, h.DecompressedSize)
}

// Bytes returns the encoded header.
func (h Header) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// ParseBlocks reads the block directory of the chunk starting at data and
// resolves each block's offsets by accumulating the sizes of the blocks before
// it. The directory totals must agree with the header.
func ParseBlocks(data []byte, h Header) ([]Block, error) {
	n := h.NumBlocks()
	if len(data) < h.DirectorySize() {
		return nil, fmt.Errorf("%w: block directory of %d entries truncated", errs.ErrMalformedHeader, n)
	}

	blocks := make([]Block, n)
	src := h.DirectorySize()
	dst := 0
	for i := range blocks {
		entry := data[HeaderSize+i*BlockEntrySize:]
		blocks[i] = Block{
			SrcOffset: src,
			SrcSize:   int(engine.Uint32(entry[0:4])),
			DstOffset: dst,
			DstSize:   int(engine.Uint32(entry[4:8])),
		}
		src += blocks[i].SrcSize
		dst += blocks[i].DstSize
	}

	if got := src - h.DirectorySize(); got != int(h.CompressedSize) {
		return nil, &errs.CorruptBlockError{
			Block: -1,
			Code:  -1,
			Err:   &errs.SizeMismatchError{Field: "chunk compressed", Got: int64(got), Want: int64(h.CompressedSize)},
		}
	}
	if dst != int(h.DecompressedSize) {
		return nil, &errs.CorruptBlockError{
			Block: -1,
			Code:  -1,
			Err:   &errs.SizeMismatchError{Field: "chunk decompressed", Got: int64(dst), Want: int64(h.DecompressedSize)},
		}
	}

	return blocks, nil
}
