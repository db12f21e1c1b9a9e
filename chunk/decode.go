package chunk

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tera-toolbox/upkg/compress"
	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/internal/options"
)

// Decode decompresses the chunk at the start of src into dst and returns the
// number of bytes of src the chunk occupies.
//
// The header magic is validated before any block is touched. dst must hold at
// least DecompressedSize bytes. Blocks are decoded concurrently unless
// WithSequential is given; in both cases Decode returns only after every
// started block has finished. A block the codec rejects, or a block whose
// compressed bytes lie outside src, fails with *errs.CorruptBlockError.
func Decode(src, dst []byte, codec compress.BlockCodec, opts ...DecodeOption) (int, error) {
	cfg := defaultDecodeConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return 0, err
	}

	h, err := ParseHeader(src)
	if err != nil {
		return 0, err
	}

	if len(dst) < int(h.DecompressedSize) {
		return 0, &errs.SizeMismatchError{Field: "chunk destination", Got: int64(len(dst)), Want: int64(h.DecompressedSize)}
	}

	blocks, err := ParseBlocks(src, h)
	if err != nil {
		return 0, err
	}

	decodeBlock := func(i int) error {
		b := blocks[i]
		if b.SrcOffset+b.SrcSize > len(src) {
			return &errs.CorruptBlockError{
				Block: i,
				Code:  int(compress.StatusInputOverrun),
				Err:   fmt.Errorf("block ends at %d, chunk has %d bytes", b.SrcOffset+b.SrcSize, len(src)),
			}
		}

		err := codec.DecompressBlock(dst[b.DstOffset:b.DstOffset+b.DstSize], src[b.SrcOffset:b.SrcOffset+b.SrcSize])
		if err == nil {
			return nil
		}

		code := int(compress.StatusGeneric)
		var se *compress.StatusError
		if errors.As(err, &se) {
			code = int(se.Status)
		}

		return &errs.CorruptBlockError{Block: i, Code: code, Err: err}
	}

	if !cfg.parallel || len(blocks) < 2 {
		for i := range blocks {
			if err := decodeBlock(i); err != nil {
				return 0, err
			}
		}

		return h.StreamSize(), nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.workers)
	for i := range blocks {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			return decodeBlock(i)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return h.StreamSize(), nil
}

// DecodeAll decompresses a chunk into a newly allocated buffer.
func DecodeAll(src []byte, codec compress.BlockCodec, opts ...DecodeOption) ([]byte, int, error) {
	h, err := ParseHeader(src)
	if err != nil {
		return nil, 0, err
	}

	dst := make([]byte, h.DecompressedSize)
	n, err := Decode(src, dst, codec, opts...)
	if err != nil {
		return nil, 0, err
	}

	return dst, n, nil
}
