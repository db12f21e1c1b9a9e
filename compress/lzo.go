package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	lzo "github.com/rasky/go-lzo"

	"github.com/tera-toolbox/upkg/format"
)

// LZOCodec implements LZO1X-1 blocks, the algorithm used by cooked packages.
type LZOCodec struct{}

var _ BlockCodec = (*LZOCodec)(nil)

// NewLZOCodec creates a new LZO block codec.
func NewLZOCodec() LZOCodec {
	return LZOCodec{}
}

// Type returns format.CompressionLZO.
func (c LZOCodec) Type() format.CompressionFlags {
	return format.CompressionLZO
}

// CompressBlock compresses src with LZO1X-1.
func (c LZOCodec) CompressBlock(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}

	return lzo.Compress1X(src), nil
}

// DecompressBlock decompresses one LZO1X block into dst.
func (c LZOCodec) DecompressBlock(dst, src []byte) (err error) {
	if len(src) == 0 {
		if len(dst) == 0 {
			return nil
		}
		return &StatusError{Status: StatusInputOverrun, Err: io.ErrUnexpectedEOF}
	}

	defer func() {
		if r := recover(); r != nil {
			err = &StatusError{Status: StatusLookBehindOverrun, Err: fmt.Errorf("lzo: %v", r)}
		}
	}()

	out, err := lzo.Decompress1X(bytes.NewReader(src), len(src), len(dst))
	if err != nil {
		return &StatusError{Status: lzoStatus(err), Err: err}
	}
	if len(out) != len(dst) {
		return sizeStatus(len(out), len(dst))
	}
	copy(dst, out)

	return nil
}

func lzoStatus(err error) Status {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return StatusInputOverrun
	}

	return StatusGeneric
}
