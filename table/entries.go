// Package table reads and writes the object directory of a package: the name
// table, the import table and the export table, and resolves object indices
// against them.
//
// Object indices follow the engine convention: a positive index i refers to
// export i-1, a negative index -i to import i-1, and zero to no object.
package table

import (
	"github.com/tera-toolbox/upkg/format"
	"github.com/tera-toolbox/upkg/stream"
	"github.com/tera-toolbox/upkg/value"
)

// Name is a reference into the name table with an instance number. Number 0
// means no suffix; Number n renders as "_n-1".
type Name struct {
	Index  int32 `json:"index"`
	Number int32 `json:"number"`
}

// Serialize transfers Index then Number.
func (n *Name) Serialize(s *stream.Stream) {
	s.Int32(&n.Index)
	s.Int32(&n.Number)
}

// NameEntry is one name table entry.
type NameEntry struct {
	Name  string `json:"name"`
	Flags uint64 `json:"flags"`
}

// Serialize transfers the string followed by the 64-bit flags.
func (e *NameEntry) Serialize(s *stream.Stream) {
	s.String(&e.Name)
	s.Uint64(&e.Flags)
}

// Import references an object defined in another package.
type Import struct {
	ClassPackage Name  `json:"classPackage"`
	ClassName    Name  `json:"className"`
	OuterIndex   int32 `json:"outerIndex"`
	ObjectName   Name  `json:"objectName"`
}

// Serialize transfers the entry in table order.
func (i *Import) Serialize(s *stream.Stream) {
	i.ClassPackage.Serialize(s)
	i.ClassName.Serialize(s)
	s.Int32(&i.OuterIndex)
	i.ObjectName.Serialize(s)
}

// Export describes an object defined in this package and where its serialized
// data lives.
type Export struct {
	ClassIndex               int32               `json:"classIndex"`
	SuperIndex               int32               `json:"superIndex"`
	OuterIndex               int32               `json:"outerIndex"`
	ObjectName               Name                `json:"objectName"`
	ArchetypeIndex           int32               `json:"archetypeIndex"`
	ObjectFlags              format.ObjectFlags  `json:"objectFlags"`
	SerialSize               int32               `json:"serialSize"`
	SerialOffset             int32               `json:"serialOffset"`
	ExportFlags              format.ExportFlags  `json:"exportFlags"`
	GenerationNetObjectCount []int32             `json:"generationNetObjectCount,omitempty"`
	PackageGuid              value.Guid          `json:"packageGuid"`
	PackageFlags             format.PackageFlags `json:"packageFlags"`
}

// Serialize transfers the entry in table order.
func (e *Export) Serialize(s *stream.Stream) {
	s.Int32(&e.ClassIndex)
	s.Int32(&e.SuperIndex)
	s.Int32(&e.OuterIndex)
	e.ObjectName.Serialize(s)
	s.Int32(&e.ArchetypeIndex)

	objectFlags := uint64(e.ObjectFlags)
	s.Uint64(&objectFlags)
	e.ObjectFlags = format.ObjectFlags(objectFlags)

	s.Int32(&e.SerialSize)
	s.Int32(&e.SerialOffset)

	exportFlags := uint32(e.ExportFlags)
	s.Uint32(&exportFlags)
	e.ExportFlags = format.ExportFlags(exportFlags)

	stream.Array(s, &e.GenerationNetObjectCount, (*stream.Stream).Int32)
	e.PackageGuid.Serialize(s)

	packageFlags := uint32(e.PackageFlags)
	s.Uint32(&packageFlags)
	e.PackageFlags = format.PackageFlags(packageFlags)
}

// Contains reports whether the absolute file offset lies in the export's
// serialized data.
func (e *Export) Contains(offset int64) bool {
	return e.SerialSize > 0 && offset >= int64(e.SerialOffset) && offset < int64(e.SerialOffset)+int64(e.SerialSize)
}
