package compress

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/tera-toolbox/upkg/format"
)

// zlibWriterPool pools zlib writers; Reset makes them reusable across blocks.
var zlibWriterPool = sync.Pool{
	New: func() any {
		return zlib.NewWriter(nil)
	},
}

// ZlibCodec implements zlib blocks.
type ZlibCodec struct{}

var _ BlockCodec = (*ZlibCodec)(nil)

// NewZlibCodec creates a new zlib block codec.
func NewZlibCodec() ZlibCodec {
	return ZlibCodec{}
}

// Type returns format.CompressionZLIB.
func (c ZlibCodec) Type() format.CompressionFlags {
	return format.CompressionZLIB
}

// CompressBlock compresses src as one zlib stream.
func (c ZlibCodec) CompressBlock(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w, _ := zlibWriterPool.Get().(*zlib.Writer)
	defer zlibWriterPool.Put(w)
	w.Reset(&buf)

	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecompressBlock inflates one zlib stream into dst.
func (c ZlibCodec) DecompressBlock(dst, src []byte) error {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return &StatusError{Status: StatusGeneric, Err: err}
	}
	defer r.Close()

	n, err := io.ReadFull(r, dst)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return sizeStatus(n, len(dst))
		}
		return &StatusError{Status: StatusGeneric, Err: err}
	}

	var tail [1]byte
	if extra, _ := r.Read(tail[:]); extra > 0 {
		return sizeStatus(len(dst)+extra, len(dst))
	}

	return nil
}
