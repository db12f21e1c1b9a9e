// Command upkg inspects and converts game packages.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/tera-toolbox/upkg"
	"github.com/tera-toolbox/upkg/chunk"
)

var (
	configFile string
	verbose    bool
	legacy     bool
	sequential bool
	workers    int64
	logFormat  string
)

func main() {
	app := &cli.Command{
		Name:  "upkg",
		Usage: "Inspect and convert cooked game packages",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to config file", Value: configPath(), Destination: &configFile},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging", Destination: &verbose},
			&cli.BoolFlag{Name: "legacy", Usage: "accept development engine packages", Destination: &legacy},
			&cli.BoolFlag{Name: "sequential", Usage: "decode compressed blocks one at a time", Destination: &sequential},
			&cli.Int64Flag{Name: "workers", Usage: "concurrent block decoders (0 = one per CPU)", Destination: &workers},
			&cli.StringFlag{Name: "log-format", Usage: "console or json", Value: "console", Destination: &logFormat},
		},
		Before: setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			infoCmd(),
			namesCmd(),
			exportsCmd(),
			decompressCmd(),
			bulkCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return ctx, err
	}
	applyConfig(cmd, cfg)

	if logFormat != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.LogLevel != "" {
		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return ctx, fmt.Errorf("config log_level: %w", err)
		}
		zerolog.SetGlobalLevel(level)
	}
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return ctx, nil
}

// packageOptions maps the global flags to open options.
func packageOptions() []upkg.Option {
	var opts []upkg.Option
	if legacy {
		opts = append(opts, upkg.WithLegacyVersions())
	}
	switch {
	case sequential:
		opts = append(opts, upkg.WithDecodeOptions(chunk.WithSequential()))
	case workers > 0:
		opts = append(opts, upkg.WithDecodeOptions(chunk.WithWorkers(int(workers))))
	}

	return opts
}

func openArg(cmd *cli.Command) (*upkg.Package, error) {
	if cmd.Args().Len() < 1 {
		return nil, fmt.Errorf("%s: package path required", cmd.Name)
	}

	return upkg.Open(cmd.Args().First(), packageOptions()...)
}
