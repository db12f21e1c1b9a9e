package value

import (
	"fmt"

	"github.com/tera-toolbox/upkg/bulk"
	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/format"
	"github.com/tera-toolbox/upkg/stream"
)

// allocate sizes buf for count elements of size bytes, refusing sizes the
// remaining input cannot hold.
func allocate(s *stream.Stream, buf *[]byte, count, size uint32) bool {
	n := int64(count) * int64(size)
	if n > s.Remaining() {
		s.Fail(fmt.Errorf("%w: %d elements of %d bytes at %d", errs.ErrAllocationFailure, count, size, s.Position()))
		return false
	}
	*buf = make([]byte, n)

	return true
}

// MultiSizeIndexContainer is an index buffer of 16 or 32-bit indices. The
// element size is stored twice and both copies must agree.
type MultiSizeIndexContainer struct {
	NeedsCPUAccess  bool
	ElementSize     uint32
	BulkElementSize uint32
	ElementCount    uint32
	Data            []byte
}

// Serialize transfers the container. The element size is stored twice and
// both copies must agree.
func (c *MultiSizeIndexContainer) Serialize(s *stream.Stream) {
	if s.FileVersion() > format.VerTeraClassic {
		s.Bool(&c.NeedsCPUAccess)
	}
	s.Uint32(&c.ElementSize)
	s.Uint32(&c.BulkElementSize)
	if s.Err() != nil {
		return
	}
	if c.ElementSize != c.BulkElementSize {
		s.Fail(&errs.SizeMismatchError{Field: "index element", Got: int64(c.BulkElementSize), Want: int64(c.ElementSize)})
		return
	}

	s.Uint32(&c.ElementCount)
	if s.IsReading() && !allocate(s, &c.Data, c.ElementCount, c.ElementSize) {
		return
	}
	if int64(len(c.Data)) != int64(c.ElementCount)*int64(c.ElementSize) {
		s.Fail(&errs.SizeMismatchError{Field: "index buffer", Got: int64(len(c.Data)), Want: int64(c.ElementCount) * int64(c.ElementSize)})
		return
	}
	s.Raw(c.Data)
}

// Index returns index i widened to uint32.
func (c *MultiSizeIndexContainer) Index(i int) uint32 {
	switch c.ElementSize {
	case 2:
		return uint32(engine.Uint16(c.Data[i*2:]))
	case 4:
		return engine.Uint32(c.Data[i*4:])
	default:
		return 0
	}
}

// RawIndexBuffer is an index buffer without the CPU access flag.
type RawIndexBuffer struct {
	ElementSize  uint32
	ElementCount uint32
	Data         []byte
}

// Serialize transfers the index array.
func (b *RawIndexBuffer) Serialize(s *stream.Stream) {
	s.Uint32(&b.ElementSize)
	s.Uint32(&b.ElementCount)
	if s.Err() != nil {
		return
	}
	if s.IsReading() && !allocate(s, &b.Data, b.ElementCount, b.ElementSize) {
		return
	}
	if int64(len(b.Data)) != int64(b.ElementCount)*int64(b.ElementSize) {
		s.Fail(&errs.SizeMismatchError{Field: "index buffer", Got: int64(len(b.Data)), Want: int64(b.ElementCount) * int64(b.ElementSize)})
		return
	}
	s.Raw(b.Data)
}

// Mip2D is one texture mip level: a byte bulk payload followed by its size.
type Mip2D struct {
	Data  *bulk.Data
	SizeX int32
	SizeY int32
}

// Serialize transfers the bulk payload followed by the mip dimensions.
func (m *Mip2D) Serialize(s *stream.Stream) {
	if m.Data == nil {
		m.Data = bulk.NewBytes()
	}
	if err := m.Data.Serialize(s); err != nil {
		return
	}
	s.Int32(&m.SizeX)
	s.Int32(&m.SizeY)
}

// SkinVertexSize is the wire size of a SkinVertex.
const SkinVertexSize = 32

// SkinVertex is a skinned mesh vertex with four bone influences.
type SkinVertex struct {
	TangentX         PackedNormal
	TangentZ         PackedNormal
	InfluenceBones   [4]uint8
	InfluenceWeights [4]uint8
	Position         Vector
	UV               Vector2DHalf
}

// Serialize transfers one vertex in its fixed layout.
func (v *SkinVertex) Serialize(s *stream.Stream) {
	v.TangentX.Serialize(s)
	v.TangentZ.Serialize(s)
	s.Raw(v.InfluenceBones[:])
	s.Raw(v.InfluenceWeights[:])
	v.Position.Serialize(s)
	v.UV.Serialize(s)
}

// SkinVertexBuffer is a bulk serialized vertex array: the element size, then
// the count and the vertices.
type SkinVertexBuffer struct {
	Vertices []SkinVertex
}

// Serialize transfers the per-element size and the vertex array.
func (b *SkinVertexBuffer) Serialize(s *stream.Stream) {
	size := int32(SkinVertexSize)
	s.Int32(&size)
	if s.Err() != nil {
		return
	}
	if size != SkinVertexSize {
		s.Fail(&errs.SizeMismatchError{Field: "skin vertex", Got: int64(size), Want: SkinVertexSize})
		return
	}
	stream.Structs(s, &b.Vertices)
}
