// Package format holds the wire constants shared by the upkg codecs: the package
// magic, the supported file versions, compression selectors and the flag words
// stored in summaries and object tables.
package format

type (
	// CompressionFlags is the compression selector stored in package summaries and
	// derived from bulk data flags. The low nibble selects the algorithm, the high
	// nibble carries encoder bias options.
	CompressionFlags uint32
	// SidecarType selects the codec used when payloads are written outside a package,
	// for example when a bulk payload is dumped to disk. It never appears on the wire
	// of a package file.
	SidecarType uint8
)

const (
	CompressionNone CompressionFlags = 0x00 // CompressionNone stores data uncompressed.
	CompressionZLIB CompressionFlags = 0x01 // CompressionZLIB selects zlib.
	CompressionLZO  CompressionFlags = 0x02 // CompressionLZO selects LZO1X.
	CompressionLZX  CompressionFlags = 0x04 // CompressionLZX selects LZX.

	CompressionBiasMemory CompressionFlags = 0x10 // CompressionBiasMemory prefers smaller output.
	CompressionBiasSpeed  CompressionFlags = 0x20 // CompressionBiasSpeed prefers faster encoding.

	CompressionTypeMask    CompressionFlags = 0x0F // CompressionTypeMask isolates the algorithm.
	CompressionOptionsMask CompressionFlags = 0xF0 // CompressionOptionsMask isolates the bias options.
)

const (
	SidecarNone SidecarType = 0x1 // SidecarNone writes payloads as-is.
	SidecarZstd SidecarType = 0x2 // SidecarZstd writes Zstandard frames.
	SidecarS2   SidecarType = 0x3 // SidecarS2 writes S2 blocks.
	SidecarLZ4  SidecarType = 0x4 // SidecarLZ4 writes LZ4 blocks.
)

// Type returns the algorithm bits of the selector.
func (c CompressionFlags) Type() CompressionFlags {
	return c & CompressionTypeMask
}

func (c CompressionFlags) String() string {
	switch c.Type() {
	case CompressionNone:
		return "None"
	case CompressionZLIB:
		return "ZLIB"
	case CompressionLZO:
		return "LZO"
	case CompressionLZX:
		return "LZX"
	default:
		return "Unknown"
	}
}

func (s SidecarType) String() string {
	switch s {
	case SidecarNone:
		return "None"
	case SidecarZstd:
		return "Zstd"
	case SidecarS2:
		return "S2"
	case SidecarLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Extension returns the file name suffix used for sidecar payloads.
func (s SidecarType) Extension() string {
	switch s {
	case SidecarZstd:
		return ".zst"
	case SidecarS2:
		return ".s2"
	case SidecarLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseSidecarType parses a sidecar codec name as used in configuration files.
func ParseSidecarType(name string) (SidecarType, bool) {
	switch name {
	case "", "none", "None":
		return SidecarNone, true
	case "zstd", "Zstd":
		return SidecarZstd, true
	case "s2", "S2":
		return SidecarS2, true
	case "lz4", "LZ4":
		return SidecarLZ4, true
	default:
		return 0, false
	}
}
