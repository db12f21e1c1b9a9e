package compress

// ZstdCompressor compresses sidecar payloads with Zstandard.
//
// The pure Go implementation from klauspost/compress is used by default.
// Building with the gozstd tag on a cgo toolchain switches to the libzstd
// binding.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
