package summary

import (
	"github.com/tera-toolbox/upkg/format"
	"github.com/tera-toolbox/upkg/stream"
)

// field is one entry of the summary layout. Fields are transferred in table
// order, and only when the file version is greater than after.
type field struct {
	name      string
	after     uint16
	serialize func(s *stream.Stream, sum *Summary)
}

func (f field) present(fileVersion uint16) bool {
	return fileVersion > f.after
}

// fields is the summary layout following the magic and version word.
var fields = []field{
	{name: "HeaderSize", serialize: func(s *stream.Stream, sum *Summary) { s.Int32(&sum.HeaderSize) }},
	{name: "FolderName", serialize: func(s *stream.Stream, sum *Summary) { s.String(&sum.FolderName) }},
	{name: "PackageFlags", serialize: func(s *stream.Stream, sum *Summary) {
		v := uint32(sum.PackageFlags)
		s.Uint32(&v)
		sum.PackageFlags = format.PackageFlags(v)
	}},
	{name: "Names", serialize: serializeNames},
	{name: "Exports", serialize: func(s *stream.Stream, sum *Summary) {
		s.Int32(&sum.ExportsCount)
		s.Int32(&sum.ExportsOffset)
	}},
	{name: "Imports", serialize: func(s *stream.Stream, sum *Summary) {
		s.Int32(&sum.ImportsCount)
		s.Int32(&sum.ImportsOffset)
	}},
	{name: "DependsOffset", serialize: func(s *stream.Stream, sum *Summary) { s.Int32(&sum.DependsOffset) }},
	{name: "ImportExportGuidsOffset", after: format.VerTeraClassic, serialize: func(s *stream.Stream, sum *Summary) { s.Int32(&sum.ImportExportGuidsOffset) }},
	{name: "ImportGuidsCount", after: format.VerTeraClassic, serialize: func(s *stream.Stream, sum *Summary) { s.Int32(&sum.ImportGuidsCount) }},
	{name: "ExportGuidsCount", after: format.VerTeraClassic, serialize: func(s *stream.Stream, sum *Summary) { s.Int32(&sum.ExportGuidsCount) }},
	{name: "ThumbnailTableOffset", after: format.VerTeraClassic, serialize: func(s *stream.Stream, sum *Summary) { s.Int32(&sum.ThumbnailTableOffset) }},
	{name: "Guid", serialize: func(s *stream.Stream, sum *Summary) { sum.Guid.Serialize(s) }},
	{name: "Generations", serialize: func(s *stream.Stream, sum *Summary) { stream.Structs(s, &sum.Generations) }},
	{name: "EngineVersion", serialize: func(s *stream.Stream, sum *Summary) { s.Int32(&sum.EngineVersion) }},
	{name: "ContentVersion", serialize: func(s *stream.Stream, sum *Summary) { s.Int32(&sum.ContentVersion) }},
	{name: "CompressionFlags", serialize: func(s *stream.Stream, sum *Summary) {
		v := uint32(sum.CompressionFlags)
		s.Uint32(&v)
		sum.CompressionFlags = format.CompressionFlags(v)
	}},
	{name: "CompressedChunks", serialize: func(s *stream.Stream, sum *Summary) { stream.Structs(s, &sum.CompressedChunks) }},
	{name: "PackageSource", serialize: func(s *stream.Stream, sum *Summary) { s.Uint32(&sum.PackageSource) }},
	{name: "AdditionalPackagesToCook", serialize: func(s *stream.Stream, sum *Summary) {
		stream.Array(s, &sum.AdditionalPackagesToCook, (*stream.Stream).String)
	}},
	{name: "TextureAllocations", after: format.VerTeraClassic, serialize: func(s *stream.Stream, sum *Summary) { sum.TextureAllocations.Serialize(s) }},
}

// serializeNames transfers the name table count and offset. One legacy
// version pair stores count+offset in the count field; the compensation is
// applied on both paths and NamesCount always holds the real count afterwards.
func serializeNames(s *stream.Stream, sum *Summary) {
	if !format.IsLegacyNamesEncoding(sum.FileVersion, sum.LicenseeVersion) {
		s.Int32(&sum.NamesCount)
		s.Int32(&sum.NamesOffset)
		return
	}

	if !s.IsReading() {
		sum.NamesCount += sum.NamesOffset
	}
	s.Int32(&sum.NamesCount)
	s.Int32(&sum.NamesOffset)
	sum.NamesCount -= sum.NamesOffset
}
