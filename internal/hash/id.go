// Package hash derives the 64-bit identifiers used to index names and
// fingerprint payloads.
package hash

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// NameID computes a case-insensitive ID for a package name. Engine names
// compare without regard to case, so "Texture2D" and "texture2d" share an ID.
func NameID(name string) uint64 {
	if !hasUpper(name) {
		return xxhash.Sum64String(name)
	}

	return xxhash.Sum64String(strings.ToLower(name))
}

// Fingerprint computes the xxHash64 of a payload.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

func hasUpper(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' || c >= 0x80 {
			return true
		}
	}

	return false
}
