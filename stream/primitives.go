package stream

import (
	"fmt"
	"math"
	"unicode/utf16"

	"github.com/tera-toolbox/upkg/errs"
)

// Uint8 transfers one byte.
func (s *Stream) Uint8(v *uint8) {
	b := s.scratch[:1]
	if s.reading {
		if s.read(b) {
			*v = b[0]
		}
		return
	}
	b[0] = *v
	s.write(b)
}

// Uint16 transfers a little-endian 16-bit word.
func (s *Stream) Uint16(v *uint16) {
	b := s.scratch[:2]
	if s.reading {
		if s.read(b) {
			*v = engine.Uint16(b)
		}
		return
	}
	engine.PutUint16(b, *v)
	s.write(b)
}

// Int16 transfers a signed 16-bit word.
func (s *Stream) Int16(v *int16) {
	u := uint16(*v)
	s.Uint16(&u)
	*v = int16(u)
}

// Uint32 transfers a little-endian 32-bit word.
func (s *Stream) Uint32(v *uint32) {
	b := s.scratch[:4]
	if s.reading {
		if s.read(b) {
			*v = engine.Uint32(b)
		}
		return
	}
	engine.PutUint32(b, *v)
	s.write(b)
}

// Int32 transfers a signed 32-bit word. Counts, offsets and object
// indices all use it.
func (s *Stream) Int32(v *int32) {
	u := uint32(*v)
	s.Uint32(&u)
	*v = int32(u)
}

// Uint64 transfers a little-endian 64-bit word.
func (s *Stream) Uint64(v *uint64) {
	b := s.scratch[:8]
	if s.reading {
		if s.read(b) {
			*v = engine.Uint64(b)
		}
		return
	}
	engine.PutUint64(b, *v)
	s.write(b)
}

// Int64 transfers a signed 64-bit word.
func (s *Stream) Int64(v *int64) {
	u := uint64(*v)
	s.Uint64(&u)
	*v = int64(u)
}

// Float32 transfers an IEEE 754 single by its bit pattern.
func (s *Stream) Float32(v *float32) {
	u := math.Float32bits(*v)
	s.Uint32(&u)
	*v = math.Float32frombits(u)
}

// Bool transfers a 32-bit boolean. Any nonzero value reads as true; true is
// written as 1.
func (s *Stream) Bool(v *bool) {
	var u uint32
	if *v {
		u = 1
	}
	s.Uint32(&u)
	*v = u != 0
}

// Raw transfers len(p) bytes verbatim.
func (s *Stream) Raw(p []byte) {
	if len(p) == 0 {
		return
	}
	if s.reading {
		s.read(p)
		return
	}
	s.write(p)
}

// String transfers a length prefixed string. A positive length counts
// single-byte characters, a negative one UTF-16 code units; both include a
// terminating NUL. Zero is the empty string. Strings whose runes all fit in a
// byte are written single-byte (Latin-1), others as UTF-16.
func (s *Stream) String(v *string) {
	if s.reading {
		s.readString(v)
		return
	}

	if *v == "" {
		var n int32
		s.Int32(&n)
		return
	}

	if b, ok := latin1Bytes(*v); ok {
		n := int32(len(b) + 1)
		s.Int32(&n)
		s.write(append(b, 0))
		return
	}

	units := utf16.Encode([]rune(*v))
	n := -int32(len(units) + 1)
	s.Int32(&n)
	buf := make([]byte, 0, (len(units)+1)*2)
	for _, u := range units {
		buf = engine.AppendUint16(buf, u)
	}
	buf = engine.AppendUint16(buf, 0)
	s.write(buf)
}

func (s *Stream) readString(v *string) {
	var n int32
	s.Int32(&n)
	if s.err != nil || n == 0 {
		if s.err == nil {
			*v = ""
		}
		return
	}

	if n > 0 {
		if int64(n) > s.Remaining() {
			s.Fail(fmt.Errorf("%w: string of %d bytes at %d", errs.ErrAllocationFailure, n, s.pos))
			return
		}
		b, ok := s.view(int(n))
		if !ok {
			return
		}
		*v = latin1(trimNUL(b))
		return
	}

	if n == math.MinInt32 || int64(-n)*2 > s.Remaining() {
		s.Fail(fmt.Errorf("%w: string of %d UTF-16 units at %d", errs.ErrAllocationFailure, -int64(n), s.pos))
		return
	}
	b, ok := s.view(int(-n) * 2)
	if !ok {
		return
	}
	units := make([]uint16, 0, -n)
	for i := 0; i < len(b); i += 2 {
		u := engine.Uint16(b[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	*v = string(utf16.Decode(units))
}

func trimNUL(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}

	return b
}

func latin1(b []byte) string {
	if isASCII(string(b)) {
		return string(b)
	}
	r := make([]rune, len(b))
	for i, c := range b {
		r[i] = rune(c)
	}

	return string(r)
}

// latin1Bytes encodes str one byte per rune when every rune is below 0x100.
func latin1Bytes(str string) ([]byte, bool) {
	if isASCII(str) {
		return []byte(str), true
	}
	b := make([]byte, 0, len(str))
	for _, r := range str {
		if r > 0xFF {
			return nil, false
		}
		b = append(b, byte(r))
	}

	return b, true
}

func isASCII(str string) bool {
	for i := 0; i < len(str); i++ {
		if str[i] >= 0x80 {
			return false
		}
	}

	return true
}

// Array transfers an int32 element count followed by the elements. A negative
// count, or one the remaining input cannot possibly hold, fails with
// errs.ErrAllocationFailure. An empty array reads as nil.
func Array[T any](s *Stream, items *[]T, elem func(*Stream, *T)) {
	if !s.reading {
		n := int32(len(*items))
		s.Int32(&n)
		for i := range *items {
			elem(s, &(*items)[i])
		}
		return
	}

	var n int32
	s.Int32(&n)
	if s.err != nil {
		return
	}
	if n < 0 || int64(n) > s.Remaining() {
		s.Fail(fmt.Errorf("%w: array of %d elements at %d", errs.ErrAllocationFailure, n, s.pos))
		return
	}
	if n == 0 {
		*items = nil
		return
	}

	out := make([]T, n)
	for i := range out {
		elem(s, &out[i])
		if s.err != nil {
			return
		}
	}
	*items = out
}

// Serializer is satisfied by pointers to types with a symmetric Serialize
// method.
type Serializer[T any] interface {
	*T
	Serialize(s *Stream)
}

// Structs transfers an array of values that serialize themselves.
func Structs[T any, P Serializer[T]](s *Stream, items *[]T) {
	Array(s, items, func(s *Stream, v *T) { P(v).Serialize(s) })
}
