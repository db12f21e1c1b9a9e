package value

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tera-toolbox/upkg/stream"
)

// Color is an 8-bit RGBA color stored in R, G, B, A order.
type Color struct {
	R, G, B, A uint8
}

// Serialize transfers the four channel bytes.
func (c *Color) Serialize(s *stream.Stream) {
	s.Uint8(&c.R)
	s.Uint8(&c.G)
	s.Uint8(&c.B)
	s.Uint8(&c.A)
}

// LinearColor is a floating point RGBA color in linear space.
type LinearColor struct {
	R, G, B, A float32
}

// Serialize transfers R, G, B and A as singles.
func (c *LinearColor) Serialize(s *stream.Stream) {
	s.Float32(&c.R)
	s.Float32(&c.G)
	s.Float32(&c.B)
	s.Float32(&c.A)
}

// Guid is a 128-bit identifier stored as four little-endian words.
type Guid struct {
	A, B, C, D uint32
}

// Serialize transfers the four words in A, B, C, D order.
func (g *Guid) Serialize(s *stream.Stream) {
	s.Uint32(&g.A)
	s.Uint32(&g.B)
	s.Uint32(&g.C)
	s.Uint32(&g.D)
}

// NewGuid returns a random Guid.
func NewGuid() Guid {
	return GuidFromUUID(uuid.New())
}

// GuidFromUUID converts u, reading each word big-endian.
func GuidFromUUID(u uuid.UUID) Guid {
	word := func(b []byte) uint32 {
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}

	return Guid{A: word(u[0:4]), B: word(u[4:8]), C: word(u[8:12]), D: word(u[12:16])}
}

// ParseGuid parses any form accepted by uuid.Parse.
func ParseGuid(str string) (Guid, error) {
	u, err := uuid.Parse(str)
	if err != nil {
		return Guid{}, fmt.Errorf("parse guid %q: %w", str, err)
	}

	return GuidFromUUID(u), nil
}

// UUID returns g as a uuid.UUID.
func (g Guid) UUID() uuid.UUID {
	var u uuid.UUID
	for i, w := range [4]uint32{g.A, g.B, g.C, g.D} {
		u[i*4] = byte(w >> 24)
		u[i*4+1] = byte(w >> 16)
		u[i*4+2] = byte(w >> 8)
		u[i*4+3] = byte(w)
	}

	return u
}

// IsZero reports whether every word is zero.
func (g Guid) IsZero() bool { return g == Guid{} }

// String formats g in the UUID text form.
func (g Guid) String() string {
	return g.UUID().String()
}

// MarshalText encodes g in its UUID form.
func (g Guid) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}
