package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/satcat/internal"
	"github.com/starford/satcat/internal/timecodec"
	pkgconfig "github.com/starford/satcat/pkg/config"
)

const defaultConfigFile = "config/config.yaml"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadWithDefaults(cmd.String("config"), defaultConfigFile, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func importFeed(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("usage: import satcat|tle <file>")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Import(ctx, cmd.Args().Get(0), cmd.Args().Get(1), internal.WithConfig(cfg))
}

func fetchSources(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Fetch(ctx, cmd.Args().Slice(), internal.WithConfig(cfg))
}

func position(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: position [--time YYYYMMDDHHMMSS] <norad>")
	}
	var at time.Time
	if raw := cmd.String("time"); raw != "" {
		t, err := timecodec.ParseCompact(raw)
		if err != nil {
			return err
		}
		at = t
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Position(ctx, cmd.Args().First(), at, internal.WithConfig(cfg))
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "satcat",
		Usage:  "Satellite catalog with TLE history and sub-satellite position queries",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigFile,
				Value:       defaultConfigFile,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and the inbox watcher",
				Action: serve,
			},
			{
				Name:      "import",
				Usage:     "Ingest a SATCAT or TLE file",
				ArgsUsage: "satcat|tle <file>",
				Action:    importFeed,
			},
			{
				Name:      "fetch",
				Usage:     "Download and ingest configured data sources",
				ArgsUsage: "[source...|all]",
				Action:    fetchSources,
			},
			{
				Name:      "position",
				Usage:     "Print the position of an object",
				ArgsUsage: "<norad>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "time",
						Aliases: []string{"t"},
						Usage:   "UTC date as YYYYMMDDHHMMSS (default now)",
					},
				},
				Action: position,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
