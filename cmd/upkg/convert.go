package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/tera-toolbox/upkg/bulk"
	"github.com/tera-toolbox/upkg/compress"
	"github.com/tera-toolbox/upkg/format"
	"github.com/tera-toolbox/upkg/internal/hash"
	"github.com/tera-toolbox/upkg/stream"
)

func decompressCmd() *cli.Command {
	return &cli.Command{
		Name:      "decompress",
		Usage:     "Write an uncompressed copy of a package",
		ArgsUsage: "IN OUT",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("decompress: IN and OUT required")
			}
			pkg, err := openArg(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = pkg.Close() }()

			out := cmd.Args().Get(1)
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := pkg.WriteDecompressed(f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			log.Info().Str("out", out).Int("size", len(pkg.Image())).Msg("package decompressed")

			return nil
		},
	}
}

// parseElement maps an element kind name to its codec.
func parseElement(name string) (bulk.ElementCodec, error) {
	switch name {
	case "", "byte":
		return bulk.Byte{}, nil
	case "word":
		return bulk.Word{}, nil
	case "int":
		return bulk.Int{}, nil
	default:
		return nil, fmt.Errorf("unknown element kind %q", name)
	}
}

func bulkCmd() *cli.Command {
	var (
		export    int64
		offset    int64
		element   string
		companion string
		out       string
		sidecar   string
	)

	return &cli.Command{
		Name:      "bulk",
		Usage:     "Materialize the bulk data payload at an offset inside an export",
		ArgsUsage: "PACKAGE",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "export", Usage: "export index (1-based)", Required: true, Destination: &export},
			&cli.Int64Flag{Name: "offset", Usage: "descriptor offset relative to the export data", Destination: &offset},
			&cli.StringFlag{Name: "element", Usage: "element kind: byte, word or int", Value: "byte", Destination: &element},
			&cli.StringFlag{Name: "companion", Usage: "companion file holding separately stored payloads", Destination: &companion},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write the payload to this file", Destination: &out},
			&cli.StringFlag{Name: "sidecar", Usage: "compress the written payload: none, zstd, s2 or lz4", Destination: &sidecar},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if sidecar == "" && !cmd.IsSet("sidecar") {
				sidecar = loaded.Sidecar
			}
			st, ok := format.ParseSidecarType(sidecar)
			if !ok {
				return fmt.Errorf("unknown sidecar codec %q", sidecar)
			}
			elem, err := parseElement(element)
			if err != nil {
				return err
			}

			pkg, err := openArg(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = pkg.Close() }()

			d, err := pkg.BulkData(int32(export), offset, elem)
			if err != nil {
				return err
			}
			if d.IsStoredInSeparateFile() {
				if companion == "" {
					return fmt.Errorf("payload is stored at 0x%X in a companion file; pass --companion", d.OffsetInFile())
				}
				if err := pkg.FetchSeparate(d, companionPath(companion)); err != nil {
					return err
				}
			}

			payload := d.Copy()
			fmt.Printf("flags:       %s\n", d.Flags())
			fmt.Printf("elements:    %d x %d bytes\n", d.ElementCount(), d.ElementSize())
			fmt.Printf("on disk:     %d bytes at 0x%X\n", d.SizeOnDisk(), d.OffsetInFile())
			fmt.Printf("fingerprint: %016x\n", hash.Fingerprint(payload))

			if out == "" {
				return nil
			}

			return writeSidecar(out, payload, st)
		},
	}
}

// writeSidecar writes payload to path, compressed with the sidecar codec. The
// codec's file extension is appended when path lacks it.
func writeSidecar(path string, payload []byte, st format.SidecarType) error {
	codec, err := compress.CreateCodec(st, "sidecar")
	if err != nil {
		return err
	}
	data, err := codec.Compress(payload)
	if err != nil {
		return err
	}

	if ext := st.Extension(); !strings.HasSuffix(path, ext) {
		path += ext
	}

	w, err := stream.CreateFile(path)
	if err != nil {
		return err
	}
	w.Raw(data)
	if err := w.Err(); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Info().Str("path", path).Stringer("codec", st).Int("size", len(payload)).Int("written", len(data)).Msg("bulk payload written")

	return nil
}
