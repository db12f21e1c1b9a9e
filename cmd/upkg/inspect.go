package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/tera-toolbox/upkg"
	"github.com/tera-toolbox/upkg/summary"
)

func infoCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "info",
		Usage:     "Print the package summary",
		ArgsUsage: "PACKAGE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the summary as JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pkg, err := openArg(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = pkg.Close() }()

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(pkg.Summary())
			}

			return printSummary(os.Stdout, pkg.Summary())
		},
	}
}

func printSummary(w io.Writer, sum *summary.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"version", sum.Version()},
		{"folder", sum.FolderName},
		{"package flags", sum.PackageFlags.String()},
		{"engine version", strconv.Itoa(int(sum.EngineVersion))},
		{"content version", strconv.Itoa(int(sum.ContentVersion))},
		{"guid", sum.Guid.String()},
		{"names", fmt.Sprintf("%d @ 0x%X", sum.NamesCount, sum.NamesOffset)},
		{"imports", fmt.Sprintf("%d @ 0x%X", sum.ImportsCount, sum.ImportsOffset)},
		{"exports", fmt.Sprintf("%d @ 0x%X", sum.ExportsCount, sum.ExportsOffset)},
		{"compression", sum.CompressionFlags.String()},
		{"chunks", strconv.Itoa(len(sum.CompressedChunks))},
		{"summary size", strconv.FormatInt(sum.SummarySize, 10)},
		{"file size", strconv.FormatInt(sum.SourceSize, 10)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	for i, c := range sum.CompressedChunks {
		if _, err := fmt.Fprintf(tw, "chunk %d:\t0x%X+%d -> 0x%X+%d\n", i,
			c.CompressedOffset, c.CompressedSize, c.DecompressedOffset, c.DecompressedSize); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func namesCmd() *cli.Command {
	return &cli.Command{
		Name:      "names",
		Usage:     "List the name table",
		ArgsUsage: "PACKAGE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pkg, err := openArg(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = pkg.Close() }()

			for i, n := range pkg.Tables().Names {
				fmt.Printf("%6d  %016X  %s\n", i, n.Flags, n.Name)
			}

			return nil
		},
	}
}

func exportsCmd() *cli.Command {
	var (
		at     int64
		filter string
	)

	return &cli.Command{
		Name:      "exports",
		Usage:     "List exports, or find the export containing an offset",
		ArgsUsage: "PACKAGE",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "at", Usage: "print only the export whose data contains this offset", Value: -1, Destination: &at},
			&cli.StringFlag{Name: "name", Usage: "print only exports with this object name", Destination: &filter},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pkg, err := openArg(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = pkg.Close() }()

			var indices []int32
			switch {
			case at >= 0:
				idx, ok := pkg.Tables().ExportAt(at)
				if !ok {
					return fmt.Errorf("no export contains offset 0x%X", at)
				}
				indices = []int32{idx}
			case filter != "":
				indices = pkg.Tables().FindExports(filter)
			default:
				for i := range pkg.Tables().Exports {
					indices = append(indices, int32(i+1))
				}
			}

			return printExports(os.Stdout, pkg, indices)
		},
	}
}

func printExports(w io.Writer, pkg *upkg.Package, indices []int32) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "INDEX\tOFFSET\tSIZE\tCLASS\tPATH\tFLAGS"); err != nil {
		return err
	}
	for _, idx := range indices {
		e, err := pkg.Tables().Export(idx)
		if err != nil {
			return err
		}
		class, err := pkg.Tables().ClassName(idx)
		if err != nil {
			return err
		}
		path, err := pkg.Tables().ObjectPath(idx)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(tw, "%d\t0x%X\t%d\t%s\t%s\t%s\n",
			idx, e.SerialOffset, e.SerialSize, class, path, e.ExportFlags); err != nil {
			return err
		}
	}

	return tw.Flush()
}
