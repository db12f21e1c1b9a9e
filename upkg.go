// Package upkg opens cooked game packages: the container files that hold a
// package summary, a name/import/export directory and the serialized data of
// every exported object.
//
// A package is read into an image with the layout the summary's offsets refer
// to. Uncompressed packages are used in place; compressed packages are
// inflated chunk by chunk into an owned buffer.
//
//	pkg, err := upkg.Open("S1Data.gpk")
//	if err != nil {
//	    return err
//	}
//	defer pkg.Close()
//
//	for _, idx := range pkg.Tables().FindExports("Texture0") {
//	    path, _ := pkg.Tables().ObjectPath(idx)
//	    fmt.Println(path)
//	}
//
// The subpackages can be used on their own: stream is the byte cursor, chunk
// the chunked compression codec, bulk the bulk data descriptor, summary the
// summary codec and value the structured value codecs.
package upkg

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/tera-toolbox/upkg/bulk"
	"github.com/tera-toolbox/upkg/chunk"
	"github.com/tera-toolbox/upkg/compress"
	"github.com/tera-toolbox/upkg/errs"
	"github.com/tera-toolbox/upkg/format"
	"github.com/tera-toolbox/upkg/internal/options"
	"github.com/tera-toolbox/upkg/stream"
	"github.com/tera-toolbox/upkg/summary"
	"github.com/tera-toolbox/upkg/table"
)

type config struct {
	summaryOpts []summary.ReadOption
	decodeOpts  []chunk.DecodeOption
}

// Option configures Open and Parse.
type Option = options.Option[*config]

// WithLegacyVersions additionally accepts development engine packages.
func WithLegacyVersions() Option {
	return options.NoError(func(c *config) {
		c.summaryOpts = append(c.summaryOpts, summary.WithLegacyVersions())
	})
}

// WithAcceptedVersions replaces the accepted file versions.
func WithAcceptedVersions(versions ...uint16) Option {
	return options.NoError(func(c *config) {
		c.summaryOpts = append(c.summaryOpts, summary.WithAcceptedVersions(versions...))
	})
}

// WithDecodeOptions sets the options used to inflate compressed chunks and
// compressed bulk payloads.
func WithDecodeOptions(opts ...chunk.DecodeOption) Option {
	return options.NoError(func(c *config) {
		c.decodeOpts = append(c.decodeOpts, opts...)
	})
}

// Package is an opened package. It is safe for concurrent readers as long as
// no caller mutates the returned tables or slices.
type Package struct {
	file   *stream.Stream
	image  []byte
	sum    *summary.Summary
	tables *table.Tables
	cfg    *config
}

// Open opens the package at path. The file is memory mapped when possible;
// Close releases it.
func Open(path string, opts ...Option) (*Package, error) {
	s, err := stream.OpenFile(path)
	if err != nil {
		return nil, err
	}

	p, err := parse(s, opts)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().Str("path", path).Str("version", p.sum.Version()).Bool("compressed", p.sum.IsCompressed()).Msg("package opened")

	return p, nil
}

// Parse opens a package held in memory. data is borrowed for the lifetime of
// the package unless the package is compressed.
func Parse(data []byte, opts ...Option) (*Package, error) {
	return parse(stream.NewReader(data), opts)
}

func parse(s *stream.Stream, opts []Option) (*Package, error) {
	cfg := &config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	s.SetDecodeOptions(cfg.decodeOpts...)

	sum, err := summary.Read(s, cfg.summaryOpts...)
	if err != nil {
		return nil, err
	}

	p := &Package{file: s, image: s.Bytes(), sum: sum, cfg: cfg}
	if sum.IsCompressed() {
		if p.image, err = inflate(s.Bytes(), sum, cfg.decodeOpts); err != nil {
			return nil, err
		}
	}

	if p.tables, err = table.Read(p.imageStream(), sum); err != nil {
		return nil, err
	}

	return p, nil
}

// inflate builds the decompressed image of a compressed package. The bytes
// before the first chunk are copied from the file; each chunk is decoded into
// the range its summary entry names.
func inflate(file []byte, sum *summary.Summary, decodeOpts []chunk.DecodeOption) ([]byte, error) {
	codec, err := compress.GetBlockCodec(sum.CompressionFlags)
	if err != nil {
		return nil, err
	}

	headEnd := int64(math.MaxInt64)
	var size int64
	for i, c := range sum.CompressedChunks {
		if c.DecompressedOffset < 0 || c.DecompressedSize < 0 || c.CompressedOffset < 0 || c.CompressedSize < 0 {
			return nil, fmt.Errorf("%w: compressed chunk %d has a negative field", errs.ErrMalformedHeader, i)
		}
		headEnd = min(headEnd, int64(c.DecompressedOffset))
		size = max(size, int64(c.DecompressedOffset)+int64(c.DecompressedSize))
	}
	if headEnd > int64(len(file)) {
		return nil, fmt.Errorf("%w: first chunk decompresses to %d, file has %d bytes", errs.ErrOutOfBounds, headEnd, len(file))
	}

	image := make([]byte, size)
	copy(image, file[:headEnd])

	for i, c := range sum.CompressedChunks {
		end := int64(c.CompressedOffset) + int64(c.CompressedSize)
		if end > int64(len(file)) {
			return nil, fmt.Errorf("%w: compressed chunk %d ends at %d, file has %d bytes", errs.ErrOutOfBounds, i, end, len(file))
		}
		src := file[c.CompressedOffset:end]

		h, err := chunk.ParseHeader(src)
		if err != nil {
			return nil, fmt.Errorf("compressed chunk %d: %w", i, err)
		}
		if int64(h.DecompressedSize) != int64(c.DecompressedSize) {
			return nil, &errs.SizeMismatchError{Field: fmt.Sprintf("compressed chunk %d", i), Got: int64(h.DecompressedSize), Want: int64(c.DecompressedSize)}
		}

		dst := image[c.DecompressedOffset : int64(c.DecompressedOffset)+int64(c.DecompressedSize)]
		if _, err := chunk.Decode(src, dst, codec, decodeOpts...); err != nil {
			return nil, fmt.Errorf("compressed chunk %d: %w", i, err)
		}
	}

	log.Debug().
		Int("chunks", len(sum.CompressedChunks)).
		Int("compressedSize", len(file)).
		Int64("imageSize", size).
		Msg("package inflated")

	return image, nil
}

func (p *Package) imageStream() *stream.Stream {
	s := stream.NewReader(p.image)
	s.SetVersion(p.sum.FileVersion, p.sum.LicenseeVersion)
	s.SetDecodeOptions(p.cfg.decodeOpts...)

	return s
}

// Summary returns the package summary.
func (p *Package) Summary() *summary.Summary { return p.sum }

// Tables returns the package's object directory.
func (p *Package) Tables() *table.Tables { return p.tables }

// Image returns the decompressed package bytes. The slice is borrowed.
func (p *Package) Image() []byte { return p.image }

func (p *Package) exportRange(index int32) (*table.Export, int64, int64, error) {
	e, err := p.tables.Export(index)
	if err != nil {
		return nil, 0, 0, err
	}

	start, end := int64(e.SerialOffset), int64(e.SerialOffset)+int64(e.SerialSize)
	if start < 0 || e.SerialSize < 0 || end > int64(len(p.image)) {
		return nil, 0, 0, fmt.Errorf("%w: export %d data [%d, %d), image has %d bytes", errs.ErrOutOfBounds, index, start, end, len(p.image))
	}

	return e, start, end, nil
}

// ExportData returns the serialized data of export index. The slice is
// borrowed from the package image.
func (p *Package) ExportData(index int32) ([]byte, error) {
	_, start, end, err := p.exportRange(index)
	if err != nil {
		return nil, err
	}

	return p.image[start:end], nil
}

// ExportStream returns a reading stream over the package image positioned at
// the start of export index. Offsets read from the export stay absolute.
func (p *Package) ExportStream(index int32) (*stream.Stream, error) {
	_, start, _, err := p.exportRange(index)
	if err != nil {
		return nil, err
	}

	s := p.imageStream()
	if err := s.SeekTo(start); err != nil {
		return nil, err
	}

	return s, nil
}

// BulkData reads the bulk data descriptor found rel bytes into export index.
// Inline payloads are materialized; payloads stored in a companion file are
// left for FetchSeparate.
func (p *Package) BulkData(index int32, rel int64, elem bulk.ElementCodec) (*bulk.Data, error) {
	_, start, end, err := p.exportRange(index)
	if err != nil {
		return nil, err
	}
	if rel < 0 || start+rel >= end {
		return nil, fmt.Errorf("%w: offset %d outside export %d of %d bytes", errs.ErrOutOfBounds, rel, index, end-start)
	}

	s := p.imageStream()
	if err := s.SeekTo(start + rel); err != nil {
		return nil, err
	}

	d := bulk.New(elem)
	if err := d.Serialize(s); err != nil {
		return nil, fmt.Errorf("export %d bulk data at %d: %w", index, start+rel, err)
	}

	return d, nil
}

// FetchSeparate loads the payload of a descriptor stored in the companion
// file at path.
func (p *Package) FetchSeparate(d *bulk.Data, companion string) error {
	if !d.IsStoredInSeparateFile() {
		return fmt.Errorf("%w: bulk data is stored inline", errs.ErrWrongMode)
	}

	s, err := stream.OpenFile(companion)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	s.SetVersion(p.sum.FileVersion, p.sum.LicenseeVersion)
	s.SetDecodeOptions(p.cfg.decodeOpts...)
	if err := s.SeekTo(int64(d.OffsetInFile())); err != nil {
		return fmt.Errorf("%s: %w", companion, err)
	}
	if err := d.SerializeSeparate(s); err != nil {
		return fmt.Errorf("%s: %w", companion, err)
	}

	return nil
}

// WriteDecompressed writes the package image with a summary that describes an
// uncompressed package. Object offsets are unchanged; the bytes freed by the
// dropped chunk table are zeroed.
func (p *Package) WriteDecompressed(w io.Writer) error {
	if !p.sum.IsCompressed() {
		_, err := w.Write(p.image)
		return err
	}

	ds := *p.sum
	ds.CompressionFlags = format.CompressionNone
	ds.CompressedChunks = nil
	ds.PackageFlags &^= format.PkgStoreCompressed | format.PkgStoreFullyCompressed

	hs := stream.NewWriter()
	defer func() { _ = hs.Close() }()
	if err := ds.Write(hs); err != nil {
		return err
	}
	head := hs.Bytes()
	if int64(len(head)) > p.sum.SummarySize {
		return &errs.SizeMismatchError{Field: "decompressed summary", Got: int64(len(head)), Want: p.sum.SummarySize}
	}

	out := slices.Clone(p.image)
	copy(out, head)
	clear(out[len(head):p.sum.SummarySize])

	_, err := w.Write(out)

	return err
}

// Close releases the package file.
func (p *Package) Close() error {
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	p.image = nil

	return err
}
