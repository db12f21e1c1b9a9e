package upkg

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tera-toolbox/upkg/bulk"
	"github.com/tera-toolbox/upkg/chunk"
	"github.com/tera-toolbox/upkg/compress"
	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/format"
	"github.com/tera-toolbox/upkg/stream"
	"github.com/tera-toolbox/upkg/summary"
	"github.com/tera-toolbox/upkg/table"
)

// testPackage is a synthetic package with one texture export whose data is a
// 4-byte preamble followed by an inline bulk payload, and one export whose
// bulk payload lives in a companion file.
type testPackage struct {
	file    []byte
	image   []byte
	payload []byte
	sum     *summary.Summary
}

const companionOffset = 16

func buildPackage(t *testing.T, compressed bool) *testPackage {
	t.Helper()

	payload := make([]byte, 3000)
	for i := range payload {
		payload[i] = byte(i * 7)
	}

	sum := summary.New(format.VerTeraModern, 17)
	sum.FolderName = "None"
	sum.PackageFlags = format.PkgCooked
	sum.Generations = []summary.Generation{{ExportCount: 2, NameCount: 5}}
	if compressed {
		sum.CompressionFlags = format.CompressionLZO
		sum.PackageFlags |= format.PkgStoreCompressed
		sum.CompressedChunks = []summary.CompressedChunk{{}}
	}

	w := stream.NewWriter()
	defer w.Close()
	require.NoError(t, sum.Write(w))
	headEnd := w.Position()

	texStart := w.Position()
	preamble := int32(7)
	w.Int32(&preamble)
	d := bulk.NewBytes()
	require.NoError(t, d.SetPayload(payload))
	require.NoError(t, d.Serialize(w))
	texEnd := w.Position()

	sepStart := w.Position()
	flags := uint32(bulk.StoreInSeparateFile)
	count, size, offset := int32(len(payload)), int32(len(payload)), int32(companionOffset)
	w.Uint32(&flags)
	w.Int32(&count)
	w.Int32(&size)
	w.Int32(&offset)
	sepEnd := w.Position()

	tables := table.New(
		[]table.NameEntry{{Name: "None"}, {Name: "Core"}, {Name: "Class"}, {Name: "Texture2D"}, {Name: "Tex"}},
		[]table.Import{{ClassPackage: table.Name{Index: 1}, ClassName: table.Name{Index: 2}, ObjectName: table.Name{Index: 3}}},
		[]table.Export{
			{ClassIndex: -1, ObjectName: table.Name{Index: 4}, SerialOffset: int32(texStart), SerialSize: int32(texEnd - texStart)},
			{ClassIndex: -1, ObjectName: table.Name{Index: 4, Number: 1}, SerialOffset: int32(sepStart), SerialSize: int32(sepEnd - sepStart)},
		},
	)
	require.NoError(t, tables.Write(w, sum))
	require.NoError(t, w.Err())

	var enc []byte
	if compressed {
		body := w.Bytes()[headEnd:]
		var err error
		enc, err = chunk.Encode(body, compress.NewLZOCodec(), chunk.DefaultBlockSize)
		require.NoError(t, err)
		sum.CompressedChunks[0] = summary.CompressedChunk{
			DecompressedOffset: int32(headEnd),
			DecompressedSize:   int32(len(body)),
			CompressedOffset:   int32(headEnd),
			CompressedSize:     int32(len(enc)),
		}
	}

	// Rewrite the summary now that offsets and chunks are known.
	require.NoError(t, w.SeekTo(0))
	require.NoError(t, sum.Write(w))
	require.Equal(t, headEnd, sum.SummarySize)

	image := slices.Clone(w.Bytes())
	file := image
	if compressed {
		file = append(slices.Clone(image[:headEnd]), enc...)
	}

	return &testPackage{file: file, image: image, payload: payload, sum: sum}
}

func TestParse(t *testing.T) {
	for _, compressed := range []bool{false, true} {
		name := "uncompressed"
		if compressed {
			name = "compressed"
		}
		t.Run(name, func(t *testing.T) {
			tp := buildPackage(t, compressed)

			p, err := Parse(tp.file)
			require.NoError(t, err)
			defer p.Close()

			require.Equal(t, compressed, p.Summary().IsCompressed())
			require.Equal(t, tp.image, p.Image())
			require.Len(t, p.Tables().Exports, 2)

			path, err := p.Tables().ObjectPath(2)
			require.NoError(t, err)
			require.Equal(t, "Tex_0", path)

			data, err := p.ExportData(1)
			require.NoError(t, err)
			e := p.Tables().Exports[0]
			require.Equal(t, tp.image[e.SerialOffset:e.SerialOffset+e.SerialSize], data)

			s, err := p.ExportStream(1)
			require.NoError(t, err)
			var preamble int32
			s.Int32(&preamble)
			require.NoError(t, s.Err())
			require.Equal(t, int32(7), preamble)

			d, err := p.BulkData(1, 4, bulk.Byte{})
			require.NoError(t, err)
			require.True(t, d.IsLoaded())
			require.Equal(t, tp.payload, d.Copy())
			require.Equal(t, e.SerialOffset+4+16, d.OffsetInFile())

			idx, ok := p.Tables().ExportAt(int64(d.OffsetInFile()))
			require.True(t, ok)
			require.Equal(t, int32(1), idx)
		})
	}
}

func TestParse_Sequential(t *testing.T) {
	tp := buildPackage(t, true)

	p, err := Parse(tp.file, WithDecodeOptions(chunk.WithSequential()))
	require.NoError(t, err)
	require.Equal(t, tp.image, p.Image())
}

func TestParse_Failures(t *testing.T) {
	t.Run("not a package", func(t *testing.T) {
		_, err := Parse([]byte("definitely not a package file"))
		require.ErrorIs(t, err, errs.ErrNotAPackage)
		require.ErrorIs(t, err, errs.ErrMalformedHeader)
	})

	t.Run("unsupported version", func(t *testing.T) {
		tp := buildPackage(t, false)
		_, err := Parse(tp.file, WithAcceptedVersions(format.VerTeraClassic))
		var ve *errs.VersionError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, uint16(format.VerTeraModern), ve.FileVersion)
	})

	t.Run("truncated chunk", func(t *testing.T) {
		tp := buildPackage(t, true)
		_, err := Parse(tp.file[:len(tp.file)-1])
		require.ErrorIs(t, err, errs.ErrOutOfBounds)
	})

	t.Run("corrupt chunk", func(t *testing.T) {
		tp := buildPackage(t, true)
		file := slices.Clone(tp.file)
		c := tp.sum.CompressedChunks[0]
		dataStart := int(c.CompressedOffset) + chunk.HeaderSize + chunk.BlockEntrySize
		for i := dataStart; i < len(file); i++ {
			file[i] = 0xFF
		}
		_, err := Parse(file)
		require.ErrorIs(t, err, errs.ErrCorruptBlock)
	})
}

func TestExportBounds(t *testing.T) {
	tp := buildPackage(t, false)
	p, err := Parse(tp.file)
	require.NoError(t, err)

	_, err = p.ExportData(0)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, err = p.ExportStream(3)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, err = p.BulkData(1, 10000, bulk.Byte{})
	require.ErrorIs(t, err, errs.ErrOutOfBounds)

	p.Tables().Exports[0].SerialSize = int32(len(tp.image))
	_, err = p.ExportData(1)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestFetchSeparate(t *testing.T) {
	tp := buildPackage(t, false)
	p, err := Parse(tp.file)
	require.NoError(t, err)

	d, err := p.BulkData(2, 0, bulk.Byte{})
	require.NoError(t, err)
	require.True(t, d.IsStoredInSeparateFile())
	require.False(t, d.IsLoaded())

	companion := filepath.Join(t.TempDir(), "Tex.tfc")
	content := append(make([]byte, companionOffset), tp.payload...)
	require.NoError(t, os.WriteFile(companion, content, 0o644))

	require.NoError(t, p.FetchSeparate(d, companion))
	require.True(t, d.IsStoredInSeparateFile())
	require.Equal(t, tp.payload, d.Copy())

	inline, err := p.BulkData(1, 4, bulk.Byte{})
	require.NoError(t, err)
	require.ErrorIs(t, p.FetchSeparate(inline, companion), errs.ErrWrongMode)

	short := filepath.Join(t.TempDir(), "short.tfc")
	require.NoError(t, os.WriteFile(short, content[:100], 0o644))
	d.Release()
	require.Error(t, p.FetchSeparate(d, short))
	require.False(t, d.IsLoaded())
}

func TestWriteDecompressed(t *testing.T) {
	tp := buildPackage(t, true)
	p, err := Parse(tp.file)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.WriteDecompressed(&buf))
	require.Len(t, buf.Bytes(), len(tp.image))

	q, err := Parse(buf.Bytes())
	require.NoError(t, err)
	require.False(t, q.Summary().IsCompressed())
	require.Zero(t, q.Summary().PackageFlags&format.PkgStoreCompressed)
	require.Equal(t, p.Tables().Names, q.Tables().Names)
	require.Equal(t, p.Tables().Exports, q.Tables().Exports)

	want, err := p.ExportData(1)
	require.NoError(t, err)
	got, err := q.ExportData(1)
	require.NoError(t, err)
	require.Equal(t, want, got)

	var again bytes.Buffer
	require.NoError(t, q.WriteDecompressed(&again))
	require.Equal(t, buf.Bytes(), again.Bytes())
}

func TestOpen(t *testing.T) {
	tp := buildPackage(t, true)
	path := filepath.Join(t.TempDir(), "Test.gpk")
	require.NoError(t, os.WriteFile(path, tp.file, 0o644))

	p, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, tp.image, p.Image())
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err = Open(filepath.Join(t.TempDir(), "missing.gpk"))
	require.Error(t, err)
}
