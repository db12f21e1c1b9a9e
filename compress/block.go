package compress

import (
	"fmt"

	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/format"
)

// BlockCodec is the compression primitive behind the chunked stream format.
// Each call handles one independent block; implementations keep no state
// across calls and are safe for concurrent use.
type BlockCodec interface {
	// Type returns the selector this codec implements.
	Type() format.CompressionFlags

	// CompressBlock compresses src into a newly allocated slice.
	CompressBlock(src []byte) ([]byte, error)

	// DecompressBlock decompresses src into dst. len(dst) is the declared
	// decompressed size; producing more or fewer bytes is a failure. Failures
	// are reported as *StatusError.
	DecompressBlock(dst, src []byte) error
}

// Status is a primitive status code, numbered as liblzo numbers them.
type Status int

const (
	StatusOK                Status = 0
	StatusGeneric           Status = -1
	StatusOutOfMemory       Status = -2
	StatusNotCompressible   Status = -3
	StatusInputOverrun      Status = -4
	StatusOutputOverrun     Status = -5
	StatusLookBehindOverrun Status = -6
	StatusEOFNotFound       Status = -7
	StatusInputNotConsumed  Status = -8
)

// StatusError is returned by DecompressBlock when a block cannot be decoded.
type StatusError struct {
	Status Status
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("status %d: %v", e.Status, e.Err)
	}

	return fmt.Sprintf("status %d", e.Status)
}

func (e *StatusError) Unwrap() error { return e.Err }

// sizeStatus classifies a decoded length that differs from the declared one.
func sizeStatus(got, want int) *StatusError {
	if got > want {
		return &StatusError{Status: StatusOutputOverrun, Err: fmt.Errorf("decoded %d bytes, want %d", got, want)}
	}

	return &StatusError{Status: StatusEOFNotFound, Err: fmt.Errorf("decoded %d bytes, want %d", got, want)}
}

var builtinBlockCodecs = map[format.CompressionFlags]BlockCodec{
	format.CompressionLZO:  NewLZOCodec(),
	format.CompressionZLIB: NewZlibCodec(),
}

// GetBlockCodec retrieves the block primitive for a compression selector. Only
// the algorithm bits are considered. LZX and unknown selectors fail closed with
// errs.ErrNotImplemented.
func GetBlockCodec(flags format.CompressionFlags) (BlockCodec, error) {
	if codec, ok := builtinBlockCodecs[flags.Type()]; ok {
		return codec, nil
	}

	if flags.Type() == format.CompressionNone {
		return nil, fmt.Errorf("%w: no block codec for uncompressed data", errs.ErrNotImplemented)
	}

	return nil, fmt.Errorf("%w: %s compression (0x%x)", errs.ErrNotImplemented, flags, uint32(flags.Type()))
}
