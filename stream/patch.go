package stream

import (
	"fmt"

	"github.com/tera-toolbox/upkg/errs"
)

// Placeholder marks a field written before its value is known.
type Placeholder struct {
	pos int64
}

// Position returns the absolute offset of the reserved field.
func (p Placeholder) Position() int64 { return p.pos }

// ReserveInt32 writes v as a placeholder for a 32-bit field and returns its
// location for a later PatchInt32.
func (s *Stream) ReserveInt32(v int32) Placeholder {
	p := Placeholder{pos: s.pos}
	s.Int32(&v)

	return p
}

// PatchInt32 overwrites a reserved field with v and returns the cursor to
// where it was.
func (s *Stream) PatchInt32(p Placeholder, v int32) {
	if s.err != nil {
		return
	}
	if s.reading {
		s.Fail(fmt.Errorf("%w: patch on a reading stream", errs.ErrWrongMode))
		return
	}
	end := s.pos
	s.pos = p.pos
	s.Int32(&v)
	s.pos = end
}
