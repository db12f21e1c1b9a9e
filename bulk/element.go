package bulk

import (
	"github.com/tera-toolbox/upkg/endian"
	"github.com/tera-toolbox/upkg/stream"
)

var engine = endian.GetLittleEndianEngine()

// ElementCodec transfers the elements of a bulk payload. A Data is bound to one
// codec at construction.
type ElementCodec interface {
	// ElementSize is the in-memory size of one element in bytes.
	ElementSize() int
	// SerializeElement transfers element index of data through s.
	SerializeElement(s *stream.Stream, data []byte, index int)
	// RequiresSingleElement forces per-element transfer even when reading.
	RequiresSingleElement(s *stream.Stream) bool
}

// Byte is the element codec for byte payloads such as texture mips.
type Byte struct{}

// Byte elements transfer as raw bytes.
func (Byte) ElementSize() int                          { return 1 }
func (Byte) RequiresSingleElement(*stream.Stream) bool { return false }

func (Byte) SerializeElement(s *stream.Stream, data []byte, index int) {
	s.Uint8(&data[index])
}

// Word is the element codec for 16-bit payloads such as index buffers.
type Word struct{}

// Word elements transfer as little-endian 16-bit words.
func (Word) ElementSize() int                          { return 2 }
func (Word) RequiresSingleElement(*stream.Stream) bool { return false }

func (Word) SerializeElement(s *stream.Stream, data []byte, index int) {
	b := data[index*2 : index*2+2]
	v := engine.Uint16(b)
	s.Uint16(&v)
	engine.PutUint16(b, v)
}

// Int is the element codec for 32-bit payloads.
type Int struct{}

// Int elements transfer as little-endian 32-bit words.
func (Int) ElementSize() int                          { return 4 }
func (Int) RequiresSingleElement(*stream.Stream) bool { return false }

func (Int) SerializeElement(s *stream.Stream, data []byte, index int) {
	b := data[index*4 : index*4+4]
	v := engine.Uint32(b)
	s.Uint32(&v)
	engine.PutUint32(b, v)
}
