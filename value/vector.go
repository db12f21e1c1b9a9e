package value

import (
	"math"

	"github.com/tera-toolbox/upkg/endian"
	"github.com/tera-toolbox/upkg/stream"
)

var engine = endian.GetLittleEndianEngine()

// Vector is a 3D vector of singles.
type Vector struct {
	X, Y, Z float32
}

// Serialize transfers X, Y and Z.
func (v *Vector) Serialize(s *stream.Stream) {
	s.Float32(&v.X)
	s.Float32(&v.Y)
	s.Float32(&v.Z)
}

// Size returns the Euclidean length of v.
func (v Vector) Size() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Vector2D is a 2D vector, used for texture coordinates.
type Vector2D struct {
	X, Y float32
}

// Serialize transfers X then Y.
func (v *Vector2D) Serialize(s *stream.Stream) {
	s.Float32(&v.X)
	s.Float32(&v.Y)
}

// Vector4 is a 4D vector of singles.
type Vector4 struct {
	X, Y, Z, W float32
}

// Serialize transfers the components in X, Y, Z, W order.
func (v *Vector4) Serialize(s *stream.Stream) {
	s.Float32(&v.X)
	s.Float32(&v.Y)
	s.Float32(&v.Z)
	s.Float32(&v.W)
}

// Plane is a plane in normal-distance form.
type Plane struct {
	X, Y, Z, W float32
}

// Serialize transfers the normal followed by W.
func (p *Plane) Serialize(s *stream.Stream) {
	s.Float32(&p.X)
	s.Float32(&p.Y)
	s.Float32(&p.Z)
	s.Float32(&p.W)
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center Vector
	Radius float32
}

// Serialize transfers the center and the radius.
func (sp *Sphere) Serialize(s *stream.Stream) {
	sp.Center.Serialize(s)
	s.Float32(&sp.Radius)
}

// Box is an axis aligned bounding box. IsValid is stored as a single byte.
type Box struct {
	Min     Vector
	Max     Vector
	IsValid uint8
}

// Serialize transfers Min, Max and the validity byte.
func (b *Box) Serialize(s *stream.Stream) {
	b.Min.Serialize(s)
	b.Max.Serialize(s)
	s.Uint8(&b.IsValid)
}

// BoxSphereBounds is a box and sphere sharing one origin.
type BoxSphereBounds struct {
	Origin       Vector
	BoxExtent    Vector
	SphereRadius float32
}

// Serialize transfers the origin, the box extent and the sphere radius.
func (b *BoxSphereBounds) Serialize(s *stream.Stream) {
	b.Origin.Serialize(s)
	b.BoxExtent.Serialize(s)
	s.Float32(&b.SphereRadius)
}

// IntPoint is a 2D integer point.
type IntPoint struct {
	X, Y int32
}

// Serialize transfers X then Y.
func (p *IntPoint) Serialize(s *stream.Stream) {
	s.Int32(&p.X)
	s.Int32(&p.Y)
}

// IntRect is an integer rectangle given by two corners.
type IntRect struct {
	Min, Max IntPoint
}

// Serialize transfers Min then Max.
func (r *IntRect) Serialize(s *stream.Stream) {
	r.Min.Serialize(s)
	r.Max.Serialize(s)
}

// SHA is a 20-byte SHA-1 digest.
type SHA [20]byte

// Serialize transfers the 20 digest bytes.
func (h *SHA) Serialize(s *stream.Stream) {
	s.Raw(h[:])
}
