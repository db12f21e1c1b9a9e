package bulk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/format"
	"github.com/tera-toolbox/upkg/stream"
)

func writeDescriptor(t *testing.T, d *Data, prefix int) []byte {
	t.Helper()

	w := stream.NewWriter()
	defer w.Close()
	w.Raw(make([]byte, prefix))
	require.NoError(t, d.Serialize(w))

	return append([]byte(nil), w.Bytes()...)
}

func readDescriptor(t *testing.T, data []byte, d *Data, prefix int) *stream.Stream {
	t.Helper()

	r := stream.NewReader(data)
	require.NoError(t, r.SeekTo(int64(prefix)))
	require.NoError(t, d.Serialize(r))

	return r
}

func headerFields(data []byte, at int) (flags, count, size, offset int32) {
	r := stream.NewReader(data[at:])
	r.Int32(&flags)
	r.Int32(&count)
	r.Int32(&size)
	r.Int32(&offset)

	return flags, count, size, offset
}

func TestData_InlineBytes(t *testing.T) {
	payload := []byte("mip level zero")

	d := NewBytes()
	require.NoError(t, d.SetPayload(payload))
	data := writeDescriptor(t, d, 10)

	_, count, size, offset := headerFields(data, 10)
	require.Equal(t, int32(len(payload)), count)
	require.Equal(t, int32(len(payload)), size)
	require.Equal(t, int32(26), offset)
	require.Equal(t, payload, data[offset:offset+size])

	got := NewBytes()
	r := readDescriptor(t, data, got, 10)
	require.Equal(t, int64(len(data)), r.Position())
	require.Equal(t, payload, got.Copy())
	require.Equal(t, size, got.SizeOnDisk())
	require.Equal(t, offset, got.OffsetInFile())
}

func TestData_TwoPassPatchMatchesSpan(t *testing.T) {
	payload := bytes.Repeat([]byte("compressible texture data "), 8000)

	for _, flag := range []Flags{LZO, ZLIB} {
		t.Run(flag.String(), func(t *testing.T) {
			d := NewBytes()
			d.SetFlags(flag)
			require.NoError(t, d.SetPayload(payload))
			data := writeDescriptor(t, d, 4)

			flags, count, size, offset := headerFields(data, 4)
			require.Equal(t, int32(flag), flags)
			require.Equal(t, int32(len(payload)), count)
			require.Equal(t, int32(20), offset)
			require.Equal(t, int32(len(data))-offset, size, "patched size must match the bytes the payload occupies")
			require.Less(t, int(size), len(payload))
			require.Equal(t, size, d.SizeOnDisk())
			require.Equal(t, offset, d.OffsetInFile())

			got := NewBytes()
			readDescriptor(t, data, got, 4)
			require.True(t, got.IsCompressed())
			require.Equal(t, payload, got.Copy())
		})
	}
}

func TestData_PerElementCompressed(t *testing.T) {
	indices := make([]byte, 0, 6000*2)
	for i := range 6000 {
		indices = engine.AppendUint16(indices, uint16(i%300))
	}

	d := NewWords()
	d.SetFlags(LZO)
	require.NoError(t, d.SetPayload(indices))
	require.Equal(t, int32(6000), d.ElementCount())
	data := writeDescriptor(t, d, 0)

	t.Run("bulk read", func(t *testing.T) {
		got := NewWords()
		readDescriptor(t, data, got, 0)
		require.Equal(t, indices, got.Copy())
	})

	t.Run("forced per-element read", func(t *testing.T) {
		forced := append([]byte(nil), data...)
		engine.PutUint32(forced, uint32(LZO|ForceSingleElement))

		got := NewWords()
		readDescriptor(t, forced, got, 0)
		require.Equal(t, indices, got.Copy())
	})
}

type countingCodec struct {
	Int
	calls int
}

func (c *countingCodec) RequiresSingleElement(*stream.Stream) bool { return true }

func (c *countingCodec) SerializeElement(s *stream.Stream, data []byte, index int) {
	c.calls++
	c.Int.SerializeElement(s, data, index)
}

func TestData_CustomElementCodec(t *testing.T) {
	payload := []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}

	codec := &countingCodec{}
	d := New(codec)
	require.NoError(t, d.SetPayload(payload))
	data := writeDescriptor(t, d, 0)
	require.Equal(t, 3, codec.calls)

	reader := &countingCodec{}
	got := New(reader)
	readDescriptor(t, data, got, 0)
	require.Equal(t, 3, reader.calls)
	require.Equal(t, payload, got.Copy())
}

func TestData_SeparateFile(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB, 0xCD}, 500)

	// companion file: some padding, then the payload
	companion := append(make([]byte, 64), payload...)

	w := stream.NewWriter()
	defer w.Close()
	flags := uint32(StoreInSeparateFile)
	count := int32(len(payload))
	size := int32(len(payload))
	offset := int32(64)
	w.Uint32(&flags)
	w.Int32(&count)
	w.Int32(&size)
	w.Int32(&offset)

	d := NewBytes()
	readDescriptor(t, w.Bytes(), d, 0)
	require.True(t, d.IsStoredInSeparateFile())
	require.False(t, d.IsLoaded())
	require.Equal(t, int32(64), d.OffsetInFile())

	t.Run("round trip without payload", func(t *testing.T) {
		require.Equal(t, w.Bytes(), writeDescriptor(t, d, 0))
	})

	t.Run("fetch", func(t *testing.T) {
		cs := stream.NewReader(companion)
		require.NoError(t, cs.SeekTo(int64(d.OffsetInFile())))
		require.NoError(t, d.SerializeSeparate(cs))
		require.True(t, d.IsLoaded())
		require.True(t, d.IsStoredInSeparateFile(), "separate flag must be restored")
		require.Equal(t, payload, d.Copy())
	})

	t.Run("truncated companion releases payload", func(t *testing.T) {
		d.Release()
		cs := stream.NewReader(companion[:100])
		require.NoError(t, cs.SeekTo(int64(d.OffsetInFile())))

		err := d.SerializeSeparate(cs)
		require.ErrorIs(t, err, errs.ErrAllocationFailure)
		require.False(t, d.IsLoaded())
		require.True(t, d.IsStoredInSeparateFile())
	})

	t.Run("corrupt compressed companion releases payload", func(t *testing.T) {
		cd := NewBytes()
		cd.SetFlags(StoreInSeparateFile | LZO)
		require.NoError(t, cd.SetPayload(payload))
		cd.Release()

		cs := stream.NewReader(bytes.Repeat([]byte{0xFF}, 64))
		err := cd.SerializeSeparate(cs)
		require.ErrorIs(t, err, errs.ErrMalformedHeader)
		require.False(t, cd.IsLoaded())
		require.Equal(t, StoreInSeparateFile|LZO, cd.Flags())
	})
}

func TestData_Unused(t *testing.T) {
	d := NewBytes()
	d.SetFlags(Unused)
	require.NoError(t, d.SetPayload([]byte{1, 2, 3}))

	data := writeDescriptor(t, d, 0)
	require.Len(t, data, 16)
	_, _, size, offset := headerFields(data, 0)
	require.Zero(t, size)
	require.Equal(t, int32(16), offset)

	got := NewBytes()
	r := readDescriptor(t, data, got, 0)
	require.Equal(t, int64(16), r.Position())
	require.Equal(t, int32(3), got.ElementCount())
}

func TestData_AllocationFailure(t *testing.T) {
	w := stream.NewWriter()
	defer w.Close()
	flags := uint32(0)
	count := int32(1 << 30)
	w.Uint32(&flags)
	w.Int32(&count)
	w.Raw(make([]byte, 8))

	err := NewInts().Serialize(stream.NewReader(w.Bytes()))
	require.ErrorIs(t, err, errs.ErrAllocationFailure)
}

func TestData_LZXNotImplemented(t *testing.T) {
	d := NewBytes()
	d.SetFlags(LZX)
	require.NoError(t, d.SetPayload([]byte("payload")))

	w := stream.NewWriter()
	defer w.Close()
	require.ErrorIs(t, d.Serialize(w), errs.ErrNotImplemented)
}

func TestData_CopyDoesNotAlias(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	d := NewWords()
	require.NoError(t, d.SetPayload(src))
	src[0] = 9

	c := d.Copy()
	c[1] = 9
	require.Equal(t, []byte{1, 2, 3, 4}, d.Copy())
	require.Equal(t, 4, d.Size())

	dst := make([]byte, 2)
	require.Equal(t, 2, d.CopyTo(dst))
	require.Equal(t, []byte{1, 2}, dst)

	require.ErrorIs(t, d.SetPayload([]byte{1, 2, 3}), errs.ErrSizeMismatch)

	d.Release()
	require.Nil(t, d.Copy())
}

func TestFlags(t *testing.T) {
	require.Equal(t, format.CompressionNone, Flags(0).CompressionFlags())
	require.Equal(t, format.CompressionLZO, LZO.CompressionFlags())
	require.Equal(t, format.CompressionZLIB, (ZLIB | LZO | LZX).CompressionFlags())
	require.Equal(t, format.CompressionLZX, (LZO | LZX).CompressionFlags())

	require.True(t, (LZO | StoreInSeparateFile).IsCompressed())
	require.False(t, ForceSingleElement.IsCompressed())

	require.Equal(t, "None", Flags(0).String())
	require.Equal(t, "StoreInSeparateFile, SerializeCompressedLZO", (StoreInSeparateFile | LZO).String())
}
