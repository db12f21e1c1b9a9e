package compress

import (
	"fmt"

	"github.com/tera-toolbox/upkg/format"
)

// maxSidecarPayload bounds the decoded size a sidecar frame may declare.
const maxSidecarPayload = 1 << 30

// Compressor compresses a complete payload in one call.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor. The decompressed size is recovered from
// the compressed framing, so no size hint is needed.
//
// Thread Safety: Decompressor implementations must be safe for concurrent use.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities. Codecs write
// sidecar files such as dumped bulk payloads; package chunks use BlockCodec.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a sidecar Codec.
//
// Parameters:
//   - sidecarType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(sidecarType format.SidecarType, target string) (Codec, error) {
	switch sidecarType {
	case format.SidecarNone:
		return NewNoOpCompressor(), nil
	case format.SidecarZstd:
		return NewZstdCompressor(), nil
	case format.SidecarS2:
		return NewS2Compressor(), nil
	case format.SidecarLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, sidecarType)
	}
}
