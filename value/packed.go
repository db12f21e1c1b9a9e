package value

import (
	"math"

	"github.com/x448/float16"

	"github.com/tera-toolbox/upkg/stream"
)

// PackedNormal is a unit vector quantized to one unsigned byte per axis, X in
// the low byte.
type PackedNormal struct {
	Packed uint32
}

// Serialize transfers the packed word.
func (n *PackedNormal) Serialize(s *stream.Stream) {
	s.Uint32(&n.Packed)
}

// X, Y, Z and W return the biased component bytes.
func (n PackedNormal) X() uint8 { return uint8(n.Packed) }
func (n PackedNormal) Y() uint8 { return uint8(n.Packed >> 8) }
func (n PackedNormal) Z() uint8 { return uint8(n.Packed >> 16) }
func (n PackedNormal) W() uint8 { return uint8(n.Packed >> 24) }

// Vector unpacks every axis as value/127.5 - 1.
func (n PackedNormal) Vector() Vector {
	const a = float32(1.0 / 127.5)
	return Vector{
		X: float32(n.X())*a - 1,
		Y: float32(n.Y())*a - 1,
		Z: float32(n.Z())*a - 1,
	}
}

// Set packs v. W is set to 128.
func (n *PackedNormal) Set(v Vector) {
	pack := func(f float32) uint32 {
		return uint32(clamp(int32(math.Trunc(float64(f*127.5+127.5))), 0, 255))
	}
	n.Packed = pack(v.X) | pack(v.Y)<<8 | pack(v.Z)<<16 | 128<<24
}

// PackedPosition stores a position in a unit cube as signed fixed point:
// X and Y in 11 bits, Z in 10 bits, X in the low bits.
type PackedPosition struct {
	Packed uint32
}

// Serialize transfers the packed word.
func (p *PackedPosition) Serialize(s *stream.Stream) {
	s.Uint32(&p.Packed)
}

// Components returns the signed integer components.
func (p PackedPosition) Components() (x, y, z int32) {
	x = signExtend(p.Packed&0x7FF, 11)
	y = signExtend(p.Packed>>11&0x7FF, 11)
	z = signExtend(p.Packed>>22&0x3FF, 10)

	return x, y, z
}

// Vector unpacks p into [-1, 1] on every axis.
func (p PackedPosition) Vector() Vector {
	x, y, z := p.Components()
	return Vector{X: float32(x) / 1023, Y: float32(y) / 1023, Z: float32(z) / 511}
}

// Set packs v, clamping X and Y to [-1023, 1023] and Z to [-511, 511].
func (p *PackedPosition) Set(v Vector) {
	x := clamp(int32(math.Trunc(float64(v.X*1023))), -1023, 1023)
	y := clamp(int32(math.Trunc(float64(v.Y*1023))), -1023, 1023)
	z := clamp(int32(math.Trunc(float64(v.Z*511))), -511, 511)
	p.Packed = uint32(x)&0x7FF | (uint32(y)&0x7FF)<<11 | (uint32(z)&0x3FF)<<22
}

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

func clamp(v, lo, hi int32) int32 {
	return max(lo, min(v, hi))
}

// Float16 is an IEEE 754 half-precision float.
type Float16 struct {
	Packed uint16
}

// Serialize transfers the half float bits.
func (f *Float16) Serialize(s *stream.Stream) {
	s.Uint16(&f.Packed)
}

// Float32 widens f to a single.
func (f Float16) Float32() float32 {
	return float16.Frombits(f.Packed).Float32()
}

// Set stores v rounded to the nearest half.
func (f *Float16) Set(v float32) {
	f.Packed = float16.Fromfloat32(v).Bits()
}

// Vector2DHalf is a texture coordinate pair in half precision.
type Vector2DHalf struct {
	X, Y Float16
}

// Serialize transfers X then Y as half floats.
func (v *Vector2DHalf) Serialize(s *stream.Stream) {
	v.X.Serialize(s)
	v.Y.Serialize(s)
}

// Vector2D widens v to singles.
func (v Vector2DHalf) Vector2D() Vector2D {
	return Vector2D{X: v.X.Float32(), Y: v.Y.Float32()}
}
