package table

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/stream"
	"github.com/tera-toolbox/upkg/summary"
)

// Tables is the object directory of a package.
type Tables struct {
	Names   []NameEntry
	Imports []Import
	Exports []Export

	names   *NameIndex
	offsets *OffsetIndex
}

// New builds a directory from existing tables and indexes it.
func New(names []NameEntry, imports []Import, exports []Export) *Tables {
	t := &Tables{Names: names, Imports: imports, Exports: exports}
	t.reindex()

	return t
}

// Read loads the three tables at the offsets recorded in sum.
func Read(s *stream.Stream, sum *summary.Summary) (*Tables, error) {
	t := &Tables{}

	if err := readTable(s, "name", sum.NamesOffset, sum.NamesCount, &t.Names); err != nil {
		return nil, err
	}
	if err := readTable(s, "import", sum.ImportsOffset, sum.ImportsCount, &t.Imports); err != nil {
		return nil, err
	}
	if err := readTable(s, "export", sum.ExportsOffset, sum.ExportsCount, &t.Exports); err != nil {
		return nil, err
	}
	t.reindex()

	log.Debug().
		Int("names", len(t.Names)).
		Int("imports", len(t.Imports)).
		Int("exports", len(t.Exports)).
		Msg("object directory read")

	return t, nil
}

func readTable[T any, P stream.Serializer[T]](s *stream.Stream, what string, offset, count int32, out *[]T) error {
	if count == 0 {
		*out = nil
		return nil
	}
	if count < 0 || int64(count) > s.Size() {
		return s.Fail(fmt.Errorf("%w: %s table of %d entries", errs.ErrAllocationFailure, what, count))
	}
	if err := s.SeekTo(int64(offset)); err != nil {
		return fmt.Errorf("%s table: %w", what, err)
	}

	items := make([]T, count)
	for i := range items {
		P(&items[i]).Serialize(s)
		if err := s.Err(); err != nil {
			return fmt.Errorf("%s table entry %d: %w", what, i, err)
		}
	}
	*out = items

	return nil
}

// Write emits the name, import and export tables at the cursor, in that
// order, and records their offsets and counts in sum.
func (t *Tables) Write(s *stream.Stream, sum *summary.Summary) error {
	var err error
	if sum.NamesOffset, sum.NamesCount, err = writeTable(s, t.Names); err != nil {
		return err
	}
	if sum.ImportsOffset, sum.ImportsCount, err = writeTable(s, t.Imports); err != nil {
		return err
	}
	if sum.ExportsOffset, sum.ExportsCount, err = writeTable(s, t.Exports); err != nil {
		return err
	}

	return nil
}

func writeTable[T any, P stream.Serializer[T]](s *stream.Stream, items []T) (int32, int32, error) {
	offset := s.Position()
	if offset > math.MaxInt32 {
		return 0, 0, s.Fail(fmt.Errorf("%w: table offset %d", errs.ErrOutOfBounds, offset))
	}
	for i := range items {
		P(&items[i]).Serialize(s)
	}

	return int32(offset), int32(len(items)), s.Err()
}

func (t *Tables) reindex() {
	t.names = NewNameIndex(t.Names)
	t.offsets = NewOffsetIndex(t.Exports)
}

// NameString renders n, appending the instance suffix when Number is set.
func (t *Tables) NameString(n Name) (string, error) {
	if n.Index < 0 || int(n.Index) >= len(t.Names) {
		return "", fmt.Errorf("%w: name %d of %d", errs.ErrIndexOutOfRange, n.Index, len(t.Names))
	}
	if n.Number > 0 {
		return fmt.Sprintf("%s_%d", t.Names[n.Index].Name, n.Number-1), nil
	}

	return t.Names[n.Index].Name, nil
}

// FindName returns the name table index of name, ignoring case.
func (t *Tables) FindName(name string) (int32, bool) {
	return t.names.Find(name)
}

// Export returns the export for a positive object index.
func (t *Tables) Export(index int32) (*Export, error) {
	if index <= 0 || int(index) > len(t.Exports) {
		return nil, fmt.Errorf("%w: export %d of %d", errs.ErrIndexOutOfRange, index, len(t.Exports))
	}

	return &t.Exports[index-1], nil
}

// Import returns the import for a negative object index.
func (t *Tables) Import(index int32) (*Import, error) {
	if index >= 0 || int(-index) > len(t.Imports) {
		return nil, fmt.Errorf("%w: import %d of %d", errs.ErrIndexOutOfRange, index, len(t.Imports))
	}

	return &t.Imports[-index-1], nil
}

// ObjectName returns the name of the object at index. Index 0 is "None".
func (t *Tables) ObjectName(index int32) (string, error) {
	switch {
	case index == 0:
		return "None", nil
	case index > 0:
		e, err := t.Export(index)
		if err != nil {
			return "", err
		}
		return t.NameString(e.ObjectName)
	default:
		i, err := t.Import(index)
		if err != nil {
			return "", err
		}
		return t.NameString(i.ObjectName)
	}
}

// ClassName returns the class name of the object at index. Exports with no
// class are classes themselves.
func (t *Tables) ClassName(index int32) (string, error) {
	switch {
	case index == 0:
		return "None", nil
	case index > 0:
		e, err := t.Export(index)
		if err != nil {
			return "", err
		}
		if e.ClassIndex == 0 {
			return "Class", nil
		}
		return t.ObjectName(e.ClassIndex)
	default:
		i, err := t.Import(index)
		if err != nil {
			return "", err
		}
		return t.NameString(i.ClassName)
	}
}

func (t *Tables) outer(index int32) (int32, error) {
	if index > 0 {
		e, err := t.Export(index)
		if err != nil {
			return 0, err
		}
		return e.OuterIndex, nil
	}
	i, err := t.Import(index)
	if err != nil {
		return 0, err
	}

	return i.OuterIndex, nil
}

// ObjectPath returns the dotted path of the object at index, outermost first.
func (t *Tables) ObjectPath(index int32) (string, error) {
	if index == 0 {
		return "None", nil
	}

	var parts []string
	limit := len(t.Exports) + len(t.Imports)
	for cur := index; cur != 0; {
		if len(parts) > limit {
			return "", fmt.Errorf("%w: outer chain of object %d loops", errs.ErrIndexOutOfRange, index)
		}
		name, err := t.ObjectName(cur)
		if err != nil {
			return "", err
		}
		parts = append(parts, name)
		if cur, err = t.outer(cur); err != nil {
			return "", err
		}
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	return strings.Join(parts, "."), nil
}

// FindExports returns the object indices of the exports named name, ignoring
// case and instance numbers.
func (t *Tables) FindExports(name string) []int32 {
	ni, ok := t.names.Find(name)
	if !ok {
		return nil
	}

	var out []int32
	for i := range t.Exports {
		if t.Exports[i].ObjectName.Index == ni {
			out = append(out, int32(i+1))
		}
	}

	return out
}

// ExportAt returns the object index of the export whose data contains the
// absolute offset.
func (t *Tables) ExportAt(offset int64) (int32, bool) {
	i, ok := t.offsets.Find(offset)
	if !ok {
		return 0, false
	}

	return int32(i + 1), true
}
