package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/supportdir/internal"
	pkgconfig "github.com/starford/supportdir/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx,
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr),
		internal.WithVersion(version),
	)
}

func check(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	report, err := internal.Check(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "source:   %s\n", report.Source)
	fmt.Fprintf(w, "shape:    %s\n", report.Shape)
	fmt.Fprintf(w, "records:  %d\n", report.Records)
	fmt.Fprintf(w, "checksum: %s\n", report.Checksum)
	for _, d := range report.Dimensions {
		fmt.Fprintf(w, "  %-32s %d options\n", d.Label, d.Options)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "supportdir",
		Usage:   "Bereavement support directory with multi-select filters and paged results",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTML directory, JSON API and event stream",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the directory as MCP tools over stdio",
				Action: serveMCP,
			},
			{
				Name:   "check",
				Usage:  "Load the dataset once and print what it contains",
				Action: check,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
