package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor writes sidecar payloads as single S2 blocks using the better
// compression mode. Dumped payloads are written once and read many times.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor returns an S2 sidecar codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes data as one S2 block.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(nil, data), nil
}

// Decompress rejects blocks declaring more than the sidecar payload limit
// before allocating.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 sidecar: %w", err)
	}
	if n > maxSidecarPayload {
		return nil, fmt.Errorf("s2 sidecar: declared size %d exceeds %d", n, maxSidecarPayload)
	}

	return s2.Decode(make([]byte, n), data)
}
