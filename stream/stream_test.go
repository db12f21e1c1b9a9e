package stream

import (
	"bytes"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tera-toolbox/upkg/chunk"
	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/format"
)

type record struct {
	u8   uint8
	u16  uint16
	i16  int16
	u32  uint32
	i32  int32
	u64  uint64
	i64  int64
	f32  float32
	b    bool
	name string
	raw  []byte
}

func (r *record) serialize(s *Stream) {
	s.Uint8(&r.u8)
	s.Uint16(&r.u16)
	s.Int16(&r.i16)
	s.Uint32(&r.u32)
	s.Int32(&r.i32)
	s.Uint64(&r.u64)
	s.Int64(&r.i64)
	s.Float32(&r.f32)
	s.Bool(&r.b)
	s.String(&r.name)
	s.Raw(r.raw)
}

func TestStream_SymmetricPrimitives(t *testing.T) {
	want := record{
		u8:   0xAB,
		u16:  0xBEEF,
		i16:  -2,
		u32:  0x9E2A83C1,
		i32:  -100,
		u64:  0x0102030405060708,
		i64:  math.MinInt64,
		f32:  3.5,
		b:    true,
		name: "CookedPC",
		raw:  []byte{1, 2, 3},
	}

	w := NewWriter()
	defer w.Close()
	want.serialize(w)
	require.NoError(t, w.Err())
	require.False(t, w.IsReading())
	require.Equal(t, int64(1+2+2+4+4+8+8+4+4+(4+9)+3), w.Position())

	r := NewReader(append([]byte(nil), w.Bytes()...))
	require.True(t, r.IsReading())
	got := record{raw: make([]byte, 3)}
	got.serialize(r)
	require.NoError(t, r.Err())
	require.Equal(t, want, got)
	require.Zero(t, r.Remaining())
}

func TestStream_WireLayout(t *testing.T) {
	w := NewWriter()
	defer w.Close()

	magic := uint32(format.PackageMagic)
	w.Uint32(&magic)
	flag := true
	w.Bool(&flag)
	require.Equal(t, []byte{0xC1, 0x83, 0x2A, 0x9E, 1, 0, 0, 0}, w.Bytes())
}

func TestStream_Strings(t *testing.T) {
	tests := []struct {
		name  string
		value string
		wire  []byte
	}{
		{"empty", "", []byte{0, 0, 0, 0}},
		{"ansi", "abc", []byte{4, 0, 0, 0, 'a', 'b', 'c', 0}},
		{"latin1", "été", []byte{4, 0, 0, 0, 0xE9, 't', 0xE9, 0}},
		{"utf16", "€t", []byte{0xFD, 0xFF, 0xFF, 0xFF, 0xAC, 0x20, 't', 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			defer w.Close()
			v := tt.value
			w.String(&v)
			require.NoError(t, w.Err())
			require.Equal(t, tt.wire, w.Bytes())

			var got string
			r := NewReader(tt.wire)
			r.String(&got)
			require.NoError(t, r.Err())
			require.Equal(t, tt.value, got)
		})
	}

	t.Run("latin1 bytes", func(t *testing.T) {
		var got string
		r := NewReader([]byte{3, 0, 0, 0, 'n', 0xE9, 0})
		r.String(&got)
		require.NoError(t, r.Err())
		require.Equal(t, "né", got)
	})

	t.Run("single byte form survives a rewrite", func(t *testing.T) {
		wire := []byte{4, 0, 0, 0, 'C', 0xE9, 'A', 0}
		var got string
		r := NewReader(wire)
		r.String(&got)
		require.NoError(t, r.Err())
		require.Equal(t, "CéA", got)

		w := NewWriter()
		defer w.Close()
		w.String(&got)
		require.NoError(t, w.Err())
		require.Equal(t, wire, w.Bytes())
	})

	t.Run("length past end", func(t *testing.T) {
		var got string
		r := NewReader([]byte{0x10, 0, 0, 0, 'a'})
		r.String(&got)
		require.ErrorIs(t, r.Err(), errs.ErrAllocationFailure)
	})
}

func TestStream_OutOfBoundsIsSticky(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})

	var v uint32 = 7
	r.Uint32(&v)
	require.ErrorIs(t, r.Err(), errs.ErrOutOfBounds)
	require.Equal(t, uint32(7), v, "failed read must not touch the pointee")
	require.Zero(t, r.Position())

	var b uint8
	r.Uint8(&b)
	require.Zero(t, b, "reads after a failure are no-ops")
	require.Zero(t, r.Position())
}

func TestStream_WrongMode(t *testing.T) {
	r := NewReader(make([]byte, 8))
	r.PatchInt32(Placeholder{}, 1)
	require.ErrorIs(t, r.Err(), errs.ErrWrongMode)
}

func TestStream_WritesAfterErrorAreNoOps(t *testing.T) {
	w := NewWriter()
	defer w.Close()

	v := uint32(1)
	w.Uint32(&v)
	w.Fail(errs.ErrSizeMismatch)
	w.Uint32(&v)

	require.ErrorIs(t, w.Err(), errs.ErrSizeMismatch)
	require.Len(t, w.Bytes(), 4)
}

func TestStream_SeekTo(t *testing.T) {
	r := NewReader(make([]byte, 10))
	require.NoError(t, r.SeekTo(10))
	require.Zero(t, r.Remaining())
	require.ErrorIs(t, r.SeekTo(11), errs.ErrOutOfBounds)

	w := NewWriter()
	defer w.Close()
	require.NoError(t, w.SeekTo(4))
	v := uint8(9)
	w.Uint8(&v)
	require.Equal(t, []byte{0, 0, 0, 0, 9}, w.Bytes())
	require.Equal(t, int64(5), w.Size())

	// Absolute seeking must not be mistaken for io.Seeker.
	_, isSeeker := any(r).(io.Seeker)
	require.False(t, isSeeker)
}

func TestStream_Version(t *testing.T) {
	s := NewReader(nil)
	s.SetVersion(format.VerTeraModern, 17)
	require.Equal(t, uint16(format.VerTeraModern), s.FileVersion())
	require.Equal(t, uint16(17), s.LicenseeVersion())
}

func TestArray(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		want := []string{"Core", "Engine", "S1Game"}

		w := NewWriter()
		defer w.Close()
		items := want
		Array(w, &items, (*Stream).String)
		require.NoError(t, w.Err())

		var got []string
		r := NewReader(w.Bytes())
		Array(r, &got, (*Stream).String)
		require.NoError(t, r.Err())
		require.Equal(t, want, got)
	})

	t.Run("empty reads as nil", func(t *testing.T) {
		got := []int32{1}
		r := NewReader([]byte{0, 0, 0, 0})
		Array(r, &got, (*Stream).Int32)
		require.NoError(t, r.Err())
		require.Nil(t, got)
	})

	t.Run("negative count", func(t *testing.T) {
		var got []int32
		r := NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF})
		Array(r, &got, (*Stream).Int32)
		require.ErrorIs(t, r.Err(), errs.ErrAllocationFailure)
	})

	t.Run("count beyond input", func(t *testing.T) {
		var got []int32
		r := NewReader([]byte{0x00, 0x00, 0x00, 0x40, 1, 2, 3, 4})
		Array(r, &got, (*Stream).Int32)
		require.ErrorIs(t, r.Err(), errs.ErrAllocationFailure)
		require.Nil(t, got)
	})
}

func TestReservePatch(t *testing.T) {
	w := NewWriter()
	defer w.Close()

	size := w.ReserveInt32(-1)
	offset := w.ReserveInt32(-1)
	w.Raw([]byte("payload"))
	end := w.Position()

	w.PatchInt32(size, 7)
	w.PatchInt32(offset, int32(offset.Position()+4))
	require.NoError(t, w.Err())
	require.Equal(t, end, w.Position())

	r := NewReader(w.Bytes())
	var gotSize, gotOffset int32
	r.Int32(&gotSize)
	r.Int32(&gotOffset)
	require.Equal(t, int32(7), gotSize)
	require.Equal(t, int32(8), gotOffset)
	require.Equal(t, int64(gotOffset), r.Position())
}

func TestSerializeCompressed(t *testing.T) {
	payload := bytes.Repeat([]byte("vertex buffer "), 20000)

	for _, flags := range []format.CompressionFlags{format.CompressionLZO, format.CompressionZLIB} {
		t.Run(flags.String(), func(t *testing.T) {
			w := NewWriter()
			defer w.Close()
			prefix := uint32(0xCAFEF00D)
			w.Uint32(&prefix)
			w.SerializeCompressed(payload, flags)
			suffix := uint32(0x11223344)
			w.Uint32(&suffix)
			require.NoError(t, w.Err())
			require.Less(t, len(w.Bytes()), len(payload))

			r := NewReader(w.Bytes())
			r.SetDecodeOptions(chunk.WithSequential())
			var gotPrefix, gotSuffix uint32
			got := make([]byte, len(payload))
			r.Uint32(&gotPrefix)
			r.SerializeCompressed(got, flags)
			r.Uint32(&gotSuffix)
			require.NoError(t, r.Err())
			require.Equal(t, payload, got)
			require.Equal(t, suffix, gotSuffix)
		})
	}

	t.Run("size mismatch", func(t *testing.T) {
		w := NewWriter()
		defer w.Close()
		w.SerializeCompressed(payload, format.CompressionLZO)

		r := NewReader(w.Bytes())
		r.SerializeCompressed(make([]byte, len(payload)-1), format.CompressionLZO)
		require.ErrorIs(t, r.Err(), errs.ErrSizeMismatch)
	})

	t.Run("lzx", func(t *testing.T) {
		w := NewWriter()
		defer w.Close()
		w.SerializeCompressed(payload, format.CompressionLZX)
		require.ErrorIs(t, w.Err(), errs.ErrNotImplemented)
	})
}

func TestFileStreams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.upk")

	w, err := CreateFile(path)
	require.NoError(t, err)

	_, err = CreateFile(path)
	assert.Error(t, err, "second writer must not acquire the lock")

	name := "Tera"
	w.String(&name)
	placeholder := w.ReserveInt32(0)
	w.PatchInt32(placeholder, 42)
	require.NoError(t, w.Err())
	require.Equal(t, int64(13), w.Size())
	require.Nil(t, w.Bytes())
	require.NoError(t, w.Close())

	r, err := OpenFile(path)
	require.NoError(t, err)
	defer r.Close()

	var got string
	var v int32
	r.String(&got)
	r.Int32(&v)
	require.NoError(t, r.Err())
	require.Equal(t, "Tera", got)
	require.Equal(t, int32(42), v)
	require.Equal(t, int64(13), r.Size())
}
