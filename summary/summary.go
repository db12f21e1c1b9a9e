// Package summary reads and writes the package summary, the header at the
// start of every package file that locates the name, import and export tables
// and describes how the rest of the file is compressed.
package summary

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/format"
	"github.com/tera-toolbox/upkg/internal/options"
	"github.com/tera-toolbox/upkg/stream"
	"github.com/tera-toolbox/upkg/value"
)

// Generation records the table sizes of one save generation.
type Generation struct {
	ExportCount    int32 `json:"exportCount"`
	NameCount      int32 `json:"nameCount"`
	NetObjectCount int32 `json:"netObjectCount"`
}

// Serialize transfers the three counts.
func (g *Generation) Serialize(s *stream.Stream) {
	s.Int32(&g.ExportCount)
	s.Int32(&g.NameCount)
	s.Int32(&g.NetObjectCount)
}

// CompressedChunk maps one compressed region of the file to the range it
// occupies in the decompressed package.
type CompressedChunk struct {
	DecompressedOffset int32 `json:"decompressedOffset"`
	DecompressedSize   int32 `json:"decompressedSize"`
	CompressedOffset   int32 `json:"compressedOffset"`
	CompressedSize     int32 `json:"compressedSize"`
}

// Serialize transfers the decompressed range then the compressed range.
func (c *CompressedChunk) Serialize(s *stream.Stream) {
	s.Int32(&c.DecompressedOffset)
	s.Int32(&c.DecompressedSize)
	s.Int32(&c.CompressedOffset)
	s.Int32(&c.CompressedSize)
}

// TextureType groups texture exports sharing one allocation shape.
type TextureType struct {
	SizeX          int32              `json:"sizeX"`
	SizeY          int32              `json:"sizeY"`
	NumMips        int32              `json:"numMips"`
	Format         format.PixelFormat `json:"format"`
	TexCreateFlags uint32             `json:"texCreateFlags"`
	ExportIndices  []int32            `json:"exportIndices,omitempty"`
}

// Serialize transfers the allocation shape followed by its export indices.
func (t *TextureType) Serialize(s *stream.Stream) {
	s.Int32(&t.SizeX)
	s.Int32(&t.SizeY)
	s.Int32(&t.NumMips)
	pf := uint32(t.Format)
	s.Uint32(&pf)
	t.Format = format.PixelFormat(pf)
	s.Uint32(&t.TexCreateFlags)
	stream.Array(s, &t.ExportIndices, (*stream.Stream).Int32)
}

// TextureAllocations lists texture allocation hints for streaming.
type TextureAllocations struct {
	TextureTypes []TextureType `json:"textureTypes,omitempty"`
}

// Serialize transfers the texture type array.
func (t *TextureAllocations) Serialize(s *stream.Stream) {
	stream.Structs(s, &t.TextureTypes)
}

// Summary is the package header.
type Summary struct {
	Magic           uint32              `json:"magic"`
	FileVersion     uint16              `json:"fileVersion"`
	LicenseeVersion uint16              `json:"licenseeVersion"`
	HeaderSize      int32               `json:"headerSize"`
	FolderName      string              `json:"folderName"`
	PackageFlags    format.PackageFlags `json:"packageFlags"`

	NamesCount    int32 `json:"namesCount"`
	NamesOffset   int32 `json:"namesOffset"`
	ExportsCount  int32 `json:"exportsCount"`
	ExportsOffset int32 `json:"exportsOffset"`
	ImportsCount  int32 `json:"importsCount"`
	ImportsOffset int32 `json:"importsOffset"`
	DependsOffset int32 `json:"dependsOffset"`

	ImportExportGuidsOffset int32 `json:"importExportGuidsOffset"`
	ImportGuidsCount        int32 `json:"importGuidsCount"`
	ExportGuidsCount        int32 `json:"exportGuidsCount"`
	ThumbnailTableOffset    int32 `json:"thumbnailTableOffset"`

	Guid                     value.Guid              `json:"guid"`
	Generations              []Generation            `json:"generations,omitempty"`
	EngineVersion            int32                   `json:"engineVersion"`
	ContentVersion           int32                   `json:"contentVersion"`
	CompressionFlags         format.CompressionFlags `json:"compressionFlags"`
	CompressedChunks         []CompressedChunk       `json:"compressedChunks,omitempty"`
	PackageSource            uint32                  `json:"packageSource"`
	AdditionalPackagesToCook []string                `json:"additionalPackagesToCook,omitempty"`
	TextureAllocations       TextureAllocations      `json:"textureAllocations"`

	// SourceSize is the size of the stream the summary was read from or
	// written to.
	SourceSize int64 `json:"sourceSize"`
	// SummarySize is the number of bytes the summary occupies.
	SummarySize int64 `json:"summarySize"`
}

// New returns a summary for the given version pair with the package magic set.
func New(fileVersion, licenseeVersion uint16) *Summary {
	return &Summary{
		Magic:           format.PackageMagic,
		FileVersion:     fileVersion,
		LicenseeVersion: licenseeVersion,
	}
}

// Version returns "file/licensee".
func (sum *Summary) Version() string {
	return format.VersionString(sum.FileVersion, sum.LicenseeVersion)
}

// IsCompressed reports whether the package body is stored as compressed chunks.
func (sum *Summary) IsCompressed() bool {
	return sum.CompressionFlags.Type() != format.CompressionNone && len(sum.CompressedChunks) > 0
}

// Read parses a summary at the cursor. The stream's version is set to the
// package version on success.
func Read(s *stream.Stream, opts ...ReadOption) (*Summary, error) {
	cfg := defaultReadConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	sum := &Summary{}
	start := s.Position()

	s.Uint32(&sum.Magic)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrNotAPackage, err)
	}
	if sum.Magic != format.PackageMagic {
		return nil, fmt.Errorf("%w: magic 0x%08X", errs.ErrNotAPackage, sum.Magic)
	}

	sum.serializeVersion(s)
	if err := s.Err(); err != nil {
		return nil, err
	}
	if !slices.Contains(cfg.versions, sum.FileVersion) {
		return nil, &errs.VersionError{FileVersion: sum.FileVersion, LicenseeVersion: sum.LicenseeVersion}
	}
	s.SetVersion(sum.FileVersion, sum.LicenseeVersion)

	if err := sum.serializeFields(s); err != nil {
		return nil, err
	}
	sum.SourceSize = s.Size()
	sum.SummarySize = s.Position() - start

	log.Debug().
		Str("version", sum.Version()).
		Int32("names", sum.NamesCount).
		Int32("exports", sum.ExportsCount).
		Int32("imports", sum.ImportsCount).
		Stringer("compression", sum.CompressionFlags).
		Int("chunks", len(sum.CompressedChunks)).
		Msg("package summary read")

	return sum, nil
}

// Write emits the summary at the cursor and sets the stream's version to the
// summary's. SourceSize and SummarySize are updated.
func (sum *Summary) Write(s *stream.Stream) error {
	if s.IsReading() {
		return fmt.Errorf("%w: summary write on a reading stream", errs.ErrWrongMode)
	}
	if sum.Magic == 0 {
		sum.Magic = format.PackageMagic
	}

	start := s.Position()
	s.Uint32(&sum.Magic)
	sum.serializeVersion(s)
	s.SetVersion(sum.FileVersion, sum.LicenseeVersion)

	if err := sum.serializeFields(s); err != nil {
		return err
	}
	sum.SourceSize = s.Size()
	sum.SummarySize = s.Position() - start

	return nil
}

func (sum *Summary) serializeVersion(s *stream.Stream) {
	packed := format.PackVersion(sum.FileVersion, sum.LicenseeVersion)
	s.Uint32(&packed)
	sum.FileVersion, sum.LicenseeVersion = format.UnpackVersion(packed)
}

func (sum *Summary) serializeFields(s *stream.Stream) error {
	for _, f := range fields {
		if !f.present(sum.FileVersion) {
			continue
		}
		f.serialize(s, sum)
		if err := s.Err(); err != nil {
			return fmt.Errorf("summary field %s: %w", f.name, err)
		}
	}

	return nil
}
