// Package bulk implements bulk data descriptors, the self-describing payload
// blocks attached to meshes, textures and sounds.
//
// Inline descriptors are laid out as:
//
//	Flags(4) ElementCount(4) SizeOnDisk(4) OffsetInFile(4) payload
//
// where the payload is either raw element bytes or a compressed chunk. When
// StoreInSeparateFile is set the payload lives in a companion file at
// OffsetInFile and is fetched later with SerializeSeparate.
package bulk

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/format"
	"github.com/tera-toolbox/upkg/internal/pool"
	"github.com/tera-toolbox/upkg/stream"
)

// maxPayloadSize bounds allocations for compressed payloads, whose size cannot
// be checked against the remaining input.
const maxPayloadSize = math.MaxInt32

// Data is a bulk data descriptor and the payload it owns.
//
// The payload is never aliased: SetPayload and Copy both copy.
type Data struct {
	flags        Flags
	elementCount int32
	sizeOnDisk   int32
	offsetInFile int32

	codec   ElementCodec
	payload []byte
}

// New returns an empty descriptor transferring elements with codec.
func New(codec ElementCodec) *Data {
	return &Data{codec: codec, sizeOnDisk: -1, offsetInFile: -1}
}

// NewBytes returns an empty descriptor for a byte payload.
func NewBytes() *Data { return New(Byte{}) }

// NewWords returns an empty descriptor for a 16-bit payload.
func NewWords() *Data { return New(Word{}) }

// NewInts returns an empty descriptor for a 32-bit payload.
func NewInts() *Data { return New(Int{}) }

// Flags returns the descriptor flags.
func (d *Data) Flags() Flags { return d.flags }

// SetFlags replaces the descriptor flags. Call before Serialize on a writer.
func (d *Data) SetFlags(f Flags) { d.flags = f }

// ElementCount returns the number of payload elements.
func (d *Data) ElementCount() int32 { return d.elementCount }

// ElementSize returns the byte size of one element.
func (d *Data) ElementSize() int { return d.codec.ElementSize() }

// SizeOnDisk returns the number of bytes the payload occupies in its file.
func (d *Data) SizeOnDisk() int32 { return d.sizeOnDisk }

// OffsetInFile returns the absolute offset of the payload in its file.
func (d *Data) OffsetInFile() int32 { return d.offsetInFile }

// IsCompressed reports whether any compression flag is set.
func (d *Data) IsCompressed() bool { return d.flags.IsCompressed() }

// IsStoredInSeparateFile reports whether the payload lives in a companion file.
func (d *Data) IsStoredInSeparateFile() bool { return d.flags.Has(StoreInSeparateFile) }

// IsLoaded reports whether the descriptor holds a payload.
func (d *Data) IsLoaded() bool { return d.payload != nil }

// Size returns ElementCount * ElementSize.
func (d *Data) Size() int {
	return int(d.elementCount) * d.codec.ElementSize()
}

// DecompressionFlags returns the compression selector the payload is encoded with.
func (d *Data) DecompressionFlags() format.CompressionFlags {
	return d.flags.CompressionFlags()
}

// SetPayload replaces the payload with a copy of p. len(p) must be a multiple
// of the element size.
func (d *Data) SetPayload(p []byte) error {
	size := d.codec.ElementSize()
	if len(p)%size != 0 {
		return &errs.SizeMismatchError{Field: "bulk payload", Got: int64(len(p)), Want: int64(len(p) / size * size)}
	}
	if len(p)/size > math.MaxInt32 {
		return fmt.Errorf("%w: %d elements", errs.ErrAllocationFailure, len(p)/size)
	}

	d.payload = append(make([]byte, 0, len(p)), p...)
	d.elementCount = int32(len(p) / size)

	return nil
}

// Copy returns a copy of the payload, or nil when none is loaded.
func (d *Data) Copy() []byte {
	if d.payload == nil {
		return nil
	}

	return append(make([]byte, 0, len(d.payload)), d.payload...)
}

// CopyTo copies the payload into dst and returns the number of bytes copied.
func (d *Data) CopyTo(dst []byte) int {
	return copy(dst, d.payload)
}

// Release drops the payload. Descriptor fields are kept.
func (d *Data) Release() {
	d.payload = nil
}

// Serialize transfers the descriptor and, unless it is stored in a separate
// file, its payload.
//
// Writing an inline descriptor reserves SizeOnDisk and OffsetInFile, writes
// the payload, then patches both with the span the payload occupies.
func (d *Data) Serialize(s *stream.Stream) error {
	if err := s.Err(); err != nil {
		return err
	}

	f := uint32(d.flags)
	s.Uint32(&f)
	d.flags = Flags(f)
	s.Int32(&d.elementCount)

	if s.IsReading() {
		s.Int32(&d.sizeOnDisk)
		s.Int32(&d.offsetInFile)
		if s.Err() != nil || d.IsStoredInSeparateFile() {
			return s.Err()
		}
		if err := d.allocate(s); err != nil {
			return err
		}
		return d.serializePayload(s)
	}

	if d.IsStoredInSeparateFile() {
		s.Int32(&d.sizeOnDisk)
		s.Int32(&d.offsetInFile)
		return s.Err()
	}

	sizeField := s.ReserveInt32(-1)
	offsetField := s.ReserveInt32(-1)
	start := s.Position()
	if err := d.serializePayload(s); err != nil {
		return err
	}
	end := s.Position()

	if end-start > math.MaxInt32 || start > math.MaxInt32 {
		return s.Fail(fmt.Errorf("%w: bulk payload at %d spans %d bytes", errs.ErrOutOfBounds, start, end-start))
	}
	d.sizeOnDisk = int32(end - start)
	d.offsetInFile = int32(start)
	s.PatchInt32(sizeField, d.sizeOnDisk)
	s.PatchInt32(offsetField, d.offsetInFile)

	return s.Err()
}

// SerializeSeparate transfers only the payload of a descriptor whose payload
// lives in a companion file. The caller positions s at OffsetInFile.
//
// StoreInSeparateFile is cleared for the duration of the call and restored
// afterwards. On failure a payload allocated by this call is released.
func (d *Data) SerializeSeparate(s *stream.Stream) error {
	separate := d.flags.Has(StoreInSeparateFile)
	d.flags &^= StoreInSeparateFile
	defer func() {
		if separate {
			d.flags |= StoreInSeparateFile
		}
	}()

	if s.IsReading() {
		if err := d.allocate(s); err != nil {
			log.Warn().Err(err).Int32("elements", d.elementCount).Msg("bulk data: separate payload allocation failed")
			d.payload = nil
			return err
		}
	}

	if err := d.serializePayload(s); err != nil {
		log.Warn().Err(err).Int32("elements", d.elementCount).Int32("offset", d.offsetInFile).Msg("bulk data: separate payload failed")
		if s.IsReading() {
			d.payload = nil
		}
		return err
	}

	return nil
}

func (d *Data) allocate(s *stream.Stream) error {
	size := int64(d.elementCount) * int64(d.codec.ElementSize())
	switch {
	case d.elementCount < 0:
		return s.Fail(fmt.Errorf("%w: bulk element count %d", errs.ErrAllocationFailure, d.elementCount))
	case d.flags.Has(Unused):
		size = 0
	case !d.IsCompressed() && size > s.Remaining():
		return s.Fail(fmt.Errorf("%w: bulk payload of %d bytes, %d remaining", errs.ErrAllocationFailure, size, s.Remaining()))
	case size > maxPayloadSize:
		return s.Fail(fmt.Errorf("%w: bulk payload of %d bytes", errs.ErrAllocationFailure, size))
	}

	d.payload = make([]byte, size)

	return nil
}

// serializePayload transfers the payload in bulk or element by element.
func (d *Data) serializePayload(s *stream.Stream) error {
	if d.flags.Has(Unused) {
		return s.Err()
	}

	size := d.Size()
	if len(d.payload) != size {
		return s.Fail(&errs.SizeMismatchError{Field: "bulk payload", Got: int64(len(d.payload)), Want: int64(size)})
	}

	perElement := d.codec.RequiresSingleElement(s) ||
		d.flags.Has(ForceSingleElement) ||
		(!s.IsReading() && d.codec.ElementSize() > 1)

	switch {
	case !perElement && d.IsCompressed():
		s.SerializeCompressed(d.payload, d.DecompressionFlags())
	case !perElement:
		s.Raw(d.payload)
	case !d.IsCompressed():
		d.serializeElements(s)
	case s.IsReading():
		scratch := pool.GetScratchBuffer()
		defer pool.PutScratchBuffer(scratch)
		scratch.Grow(size)
		scratch.B = scratch.B[:size]

		s.SerializeCompressed(scratch.B, d.DecompressionFlags())
		if s.Err() != nil {
			return s.Err()
		}

		mem := stream.NewReader(scratch.B)
		mem.SetVersion(s.FileVersion(), s.LicenseeVersion())
		d.serializeElements(mem)
		if err := mem.Err(); err != nil {
			return s.Fail(err)
		}
	default:
		mem := stream.NewWriter()
		defer mem.Close()
		mem.SetVersion(s.FileVersion(), s.LicenseeVersion())
		d.serializeElements(mem)
		if err := mem.Err(); err != nil {
			return s.Fail(err)
		}
		s.SerializeCompressed(mem.Bytes(), d.DecompressionFlags())
	}

	return s.Err()
}

func (d *Data) serializeElements(s *stream.Stream) {
	for i := range int(d.elementCount) {
		d.codec.SerializeElement(s, d.payload, i)
		if s.Err() != nil {
			return
		}
	}
}
