package table

import (
	"math"
	"strings"

	"github.com/tidwall/btree"

	"github.com/tera-toolbox/upkg/internal/hash"
)

// NameIndex finds name table entries by case-insensitive name.
type NameIndex struct {
	names   []NameEntry
	buckets map[uint64][]int32
}

// NewNameIndex indexes names. The slice is borrowed.
func NewNameIndex(names []NameEntry) *NameIndex {
	idx := &NameIndex{names: names, buckets: make(map[uint64][]int32, len(names))}
	for i, n := range names {
		id := hash.NameID(n.Name)
		idx.buckets[id] = append(idx.buckets[id], int32(i))
	}

	return idx
}

// Find returns the table index of name.
func (idx *NameIndex) Find(name string) (int32, bool) {
	for _, i := range idx.buckets[hash.NameID(name)] {
		if strings.EqualFold(idx.names[i].Name, name) {
			return i, true
		}
	}

	return -1, false
}

type offsetItem struct {
	offset int64
	export int
}

// OffsetIndex finds the export whose serialized data covers a file offset.
type OffsetIndex struct {
	exports []Export
	tree    *btree.BTreeG[offsetItem]
}

// NewOffsetIndex indexes exports by serial offset. The slice is borrowed.
// Exports without serialized data are skipped.
func NewOffsetIndex(exports []Export) *OffsetIndex {
	tree := btree.NewBTreeGOptions(func(a, b offsetItem) bool {
		if a.offset != b.offset {
			return a.offset < b.offset
		}
		return a.export < b.export
	}, btree.Options{NoLocks: true})

	for i := range exports {
		if exports[i].SerialSize > 0 {
			tree.Set(offsetItem{offset: int64(exports[i].SerialOffset), export: i})
		}
	}

	return &OffsetIndex{exports: exports, tree: tree}
}

// Len returns the number of indexed exports.
func (idx *OffsetIndex) Len() int { return idx.tree.Len() }

// Find returns the zero-based export whose data contains offset. Among
// exports sharing the nearest start offset, the lowest index wins.
func (idx *OffsetIndex) Find(offset int64) (int, bool) {
	found, start := -1, int64(-1)
	idx.tree.Descend(offsetItem{offset: offset, export: math.MaxInt}, func(item offsetItem) bool {
		if start >= 0 && item.offset != start {
			return false
		}
		start = item.offset
		if idx.exports[item.export].Contains(offset) {
			found = item.export
		}
		return true
	})

	return found, found >= 0
}
