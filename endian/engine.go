// Package endian provides the byte order used by package files.
//
// Package files are always little-endian regardless of the host. Codecs take an
// EndianEngine rather than calling binary.LittleEndian directly so that fixed
// layouts can both decode in place and append without temporary buffers:
//
//	engine := endian.GetLittleEndianEngine()
//	magic := engine.Uint32(data[0:4])
//	out = engine.AppendUint32(out, magic)
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the engine for the package wire layout.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
