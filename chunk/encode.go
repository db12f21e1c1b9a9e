package chunk

import (
	"fmt"

	"github.com/tera-toolbox/upkg/compress"
	"github.com/tera-toolbox/upkg/format"
	"github.com/tera-toolbox/upkg/internal/pool"
)

// Encode compresses src as a single chunk of blocks no larger than blockSize.
// A blockSize of 0 selects DefaultBlockSize.
//
// Each call checks its own scratch buffer out of a pool, so concurrent calls
// never share encoder state.
func Encode(src []byte, codec compress.BlockCodec, blockSize uint32) ([]byte, error) {
	if blockSize == 0 {
		blockSize = DefaultBlockSize
	}
	if uint64(len(src)) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("chunk: %d bytes exceed the 32-bit size field", len(src))
	}

	h := Header{
		Magic:            format.PackageMagic,
		BlockSize:        blockSize,
		DecompressedSize: uint32(len(src)),
	}
	n := h.NumBlocks()

	scratch := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(scratch)

	// header and directory are patched once the block sizes are known
	scratch.B = append(scratch.B, make([]byte, h.DirectorySize())...)

	for i := range n {
		start := i * int(blockSize)
		end := min(start+int(blockSize), len(src))

		compressed, err := codec.CompressBlock(src[start:end])
		if err != nil {
			return nil, fmt.Errorf("chunk: compress block %d: %w", i, err)
		}

		entry := scratch.B[HeaderSize+i*BlockEntrySize:]
		engine.PutUint32(entry[0:4], uint32(len(compressed)))
		engine.PutUint32(entry[4:8], uint32(end-start))

		scratch.Grow(len(compressed))
		scratch.B = append(scratch.B, compressed...)
		h.CompressedSize += uint32(len(compressed))
	}

	copy(scratch.B, h.Bytes())

	out := make([]byte, scratch.Len())
	copy(out, scratch.B)

	return out, nil
}
