package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/format"
	"github.com/tera-toolbox/upkg/stream"
	"github.com/tera-toolbox/upkg/summary"
	"github.com/tera-toolbox/upkg/value"
)

// Core.Texture2D
// MyPackage.Tex (Texture2D, outer Group)
// MyPackage.Group (Package)
// MyPackage.Tex_1 (Texture2D)
func sampleTables() *Tables {
	names := []NameEntry{
		{Name: "None"},
		{Name: "Core"},
		{Name: "Class"},
		{Name: "Texture2D"},
		{Name: "Package"},
		{Name: "Tex", Flags: 0x0007001000000000},
		{Name: "Group"},
	}
	imports := []Import{
		{ClassPackage: Name{Index: 1}, ClassName: Name{Index: 2}, ObjectName: Name{Index: 3}},
	}
	exports := []Export{
		{ClassIndex: -1, OuterIndex: 2, ObjectName: Name{Index: 5}, SerialSize: 100, SerialOffset: 1000,
			ObjectFlags: format.ObjPublic | format.ObjLoadForClient, GenerationNetObjectCount: []int32{1}},
		{ClassIndex: 0, ObjectName: Name{Index: 6}, PackageGuid: value.Guid{A: 9}, PackageFlags: format.PkgCooked},
		{ClassIndex: -1, ObjectName: Name{Index: 5, Number: 2}, SerialSize: 50, SerialOffset: 1100},
	}

	return New(names, imports, exports)
}

func TestWriteRead(t *testing.T) {
	want := sampleTables()
	sum := summary.New(format.VerTeraModern, 17)

	w := stream.NewWriter()
	defer w.Close()
	require.NoError(t, w.SeekTo(64))
	require.NoError(t, want.Write(w, sum))

	require.Equal(t, int32(64), sum.NamesOffset)
	require.Equal(t, int32(len(want.Names)), sum.NamesCount)
	require.Equal(t, int32(len(want.Imports)), sum.ImportsCount)
	require.Equal(t, int32(len(want.Exports)), sum.ExportsCount)
	require.Less(t, sum.NamesOffset, sum.ImportsOffset)
	require.Less(t, sum.ImportsOffset, sum.ExportsOffset)

	got, err := Read(stream.NewReader(w.Bytes()), sum)
	require.NoError(t, err)
	require.Equal(t, want.Names, got.Names)
	require.Equal(t, want.Imports, got.Imports)
	require.Equal(t, want.Exports, got.Exports)
}

func TestReadEmpty(t *testing.T) {
	sum := summary.New(format.VerTeraModern, 17)
	got, err := Read(stream.NewReader(nil), sum)
	require.NoError(t, err)
	require.Nil(t, got.Names)
	require.Nil(t, got.Exports)

	_, ok := got.FindName("None")
	require.False(t, ok)
	_, ok = got.ExportAt(0)
	require.False(t, ok)
}

func TestReadFailures(t *testing.T) {
	data := func() []byte {
		w := stream.NewWriter()
		defer w.Close()
		require.NoError(t, sampleTables().Write(w, summary.New(format.VerTeraModern, 17)))
		return append([]byte(nil), w.Bytes()...)
	}()

	t.Run("negative count", func(t *testing.T) {
		sum := summary.New(format.VerTeraModern, 17)
		sum.NamesCount = -1
		_, err := Read(stream.NewReader(data), sum)
		require.ErrorIs(t, err, errs.ErrAllocationFailure)
	})

	t.Run("offset past end", func(t *testing.T) {
		sum := summary.New(format.VerTeraModern, 17)
		sum.NamesCount = 1
		sum.NamesOffset = int32(len(data) + 1)
		_, err := Read(stream.NewReader(data), sum)
		require.ErrorIs(t, err, errs.ErrOutOfBounds)
	})

	t.Run("truncated", func(t *testing.T) {
		sum := summary.New(format.VerTeraModern, 17)
		sum.ExportsCount = 3
		sum.ExportsOffset = int32(len(data) - 10)
		_, err := Read(stream.NewReader(data), sum)
		require.ErrorIs(t, err, errs.ErrOutOfBounds)
	})
}

func TestResolve(t *testing.T) {
	tbl := sampleTables()

	name, err := tbl.ObjectName(1)
	require.NoError(t, err)
	require.Equal(t, "Tex", name)

	name, err = tbl.ObjectName(3)
	require.NoError(t, err)
	require.Equal(t, "Tex_1", name)

	name, err = tbl.ObjectName(-1)
	require.NoError(t, err)
	require.Equal(t, "Texture2D", name)

	name, err = tbl.ObjectName(0)
	require.NoError(t, err)
	require.Equal(t, "None", name)

	class, err := tbl.ClassName(1)
	require.NoError(t, err)
	require.Equal(t, "Texture2D", class)

	class, err = tbl.ClassName(2)
	require.NoError(t, err)
	require.Equal(t, "Class", class)

	class, err = tbl.ClassName(-1)
	require.NoError(t, err)
	require.Equal(t, "Class", class)

	path, err := tbl.ObjectPath(1)
	require.NoError(t, err)
	require.Equal(t, "Group.Tex", path)

	_, err = tbl.ObjectName(4)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, err = tbl.ObjectName(-2)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, err = tbl.NameString(Name{Index: 99})
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestObjectPathCycle(t *testing.T) {
	tbl := sampleTables()
	tbl.Exports[1].OuterIndex = 1

	_, err := tbl.ObjectPath(1)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestFind(t *testing.T) {
	tbl := sampleTables()

	i, ok := tbl.FindName("texture2d")
	require.True(t, ok)
	require.Equal(t, int32(3), i)

	_, ok = tbl.FindName("Missing")
	require.False(t, ok)

	require.Equal(t, []int32{1, 3}, tbl.FindExports("TEX"))
	require.Nil(t, tbl.FindExports("Missing"))
}

func TestExportAt(t *testing.T) {
	tbl := sampleTables()

	tests := []struct {
		offset int64
		want   int32
		ok     bool
	}{
		{999, 0, false},
		{1000, 1, true},
		{1099, 1, true},
		{1100, 3, true},
		{1149, 3, true},
		{1150, 0, false},
	}
	for _, tt := range tests {
		got, ok := tbl.ExportAt(tt.offset)
		require.Equal(t, tt.ok, ok, "offset %d", tt.offset)
		require.Equal(t, tt.want, got, "offset %d", tt.offset)
	}
	require.Equal(t, 2, tbl.offsets.Len())
}

func TestExportAt_SharedOffset(t *testing.T) {
	tbl := New([]NameEntry{{Name: "None"}}, nil, []Export{
		{SerialOffset: 100, SerialSize: 50},
		{SerialOffset: 100, SerialSize: 10},
		{SerialOffset: 200, SerialSize: 5},
	})
	require.Equal(t, 3, tbl.offsets.Len())

	tests := []struct {
		offset int64
		want   int32
		ok     bool
	}{
		{105, 1, true},
		{120, 1, true},
		{149, 1, true},
		{150, 0, false},
		{202, 3, true},
	}
	for _, tt := range tests {
		got, ok := tbl.ExportAt(tt.offset)
		require.Equal(t, tt.ok, ok, "offset %d", tt.offset)
		require.Equal(t, tt.want, got, "offset %d", tt.offset)
	}
}
