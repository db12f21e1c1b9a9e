package bulk

import (
	"strings"

	"github.com/tera-toolbox/upkg/format"
)

// Flags is the bulk data flag word.
type Flags uint32

const (
	StoreInSeparateFile Flags = 0x01 // payload lives in a companion file
	ZLIB                Flags = 0x02 // payload is zlib compressed
	ForceSingleElement  Flags = 0x04 // payload is transferred element by element
	SingleUse           Flags = 0x08 // payload may be discarded after first use
	LZO                 Flags = 0x10 // payload is LZO compressed
	Unused              Flags = 0x20 // payload is absent
	StoreOnlyPayload    Flags = 0x40 // payload stored without metadata
	LZX                 Flags = 0x80 // payload is LZX compressed

	// SerializeCompressed is set when any compression bit is.
	SerializeCompressed = ZLIB | LZO | LZX
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{StoreInSeparateFile, "StoreInSeparateFile"},
	{ZLIB, "SerializeCompressedZLIB"},
	{ForceSingleElement, "ForceSingleElementSerialization"},
	{SingleUse, "SingleUse"},
	{LZO, "SerializeCompressedLZO"},
	{Unused, "Unused"},
	{StoreOnlyPayload, "StoreOnlyPayload"},
	{LZX, "SerializeCompressedLZX"},
}

// Has reports whether every bit of f2 is set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// IsCompressed reports whether any compression bit is set.
func (f Flags) IsCompressed() bool { return f&SerializeCompressed != 0 }

// CompressionFlags maps the compression bits to a compression selector. ZLIB
// wins over LZX, LZX over LZO.
func (f Flags) CompressionFlags() format.CompressionFlags {
	switch {
	case f&ZLIB != 0:
		return format.CompressionZLIB
	case f&LZX != 0:
		return format.CompressionLZX
	case f&LZO != 0:
		return format.CompressionLZO
	default:
		return format.CompressionNone
	}
}

func (f Flags) String() string {
	if f == 0 {
		return "None"
	}

	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}

	return strings.Join(parts, ", ")
}
