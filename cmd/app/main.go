package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/rasoi/internal"
	"github.com/starford/rasoi/internal/mcpserver"
	pkgconfig "github.com/starford/rasoi/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svc, images, err := internal.NewService(cfg, nil)
	if err != nil {
		return err
	}

	return mcpserver.New(svc, images).ServeStdio()
}

func runList(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svc, _, err := internal.NewService(cfg, nil)
	if err != nil {
		return err
	}

	recipes, total, err := svc.ListRecipes(ctx, cmd.String("language"))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Writer, renderRecipeTable(recipes))
	fmt.Fprintf(cmd.Writer, "%d of %d recipes\n", len(recipes), total)
	return nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svc, _, err := internal.NewService(cfg, nil)
	if err != nil {
		return err
	}

	data, filename, err := svc.ExportCSV(ctx)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "-" {
		_, err = cmd.Writer.Write(data)
		return err
	}
	if output == "" {
		output = filename
	} else {
		if info, statErr := os.Stat(output); statErr == nil && info.IsDir() {
			output = filepath.Join(output, filename)
		}
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintf(cmd.Writer, "Exported dataset to %s\n", output)
	return nil
}

func runUpload(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svc, _, err := internal.NewService(cfg, nil)
	if err != nil {
		return err
	}

	msg, err := svc.Upload(ctx, cmd.String("repo"), cmd.Bool("images"))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Writer, msg)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "rasoi",
		Usage:  "Local-first collector for Indian recipe datasets with Hugging Face Hub publishing",
		Action: runServe,
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
				Name:   "mcp",
				Usage:  "Serve recipe tools over MCP on stdio",
				Action: runMCP,
			},
			{
				Name:   "list",
				Usage:  "Print the collected recipes as a table",
				Action: runList,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "language",
						Aliases: []string{"l"},
						Usage:   "Only show recipes in this language",
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Write a dated CSV snapshot of the dataset",
				Action: runExport,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Destination file or directory, or - for stdout",
					},
				},
			},
			{
				Name:   "upload",
				Usage:  "Upload the dataset to the Hugging Face Hub",
				Action: runUpload,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "repo",
						Aliases: []string{"r"},
						Usage:   "Target dataset repository (user/name); defaults to the stored setting",
					},
					&cli.BoolFlag{
						Name:  "images",
						Usage: "Also upload recipe images",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
