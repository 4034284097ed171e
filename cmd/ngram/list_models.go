package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ngram/internal/api"
	"github.com/samcharles93/ngram/internal/logger"
	"github.com/samcharles93/ngram/pkg/ngramfile"
)

func listModelsCmd() *cli.Command {
	return &cli.Command{
		Name:    "list-models",
		Aliases: []string{"ls", "models"},
		Usage:   "List available n-gram models",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "models-path",
				Aliases:     []string{"path"},
				Usage:       "path to directory containing .json models",
				Destination: &modelsPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyModelConfig(cmd, LoadConfig())

			dir := modelsDirOrEnv(modelsPath)
			if dir == "" {
				return cli.Exit(fmt.Sprintf("error: --models-path is required unless %s is set", envModelsDir), 1)
			}

			models, err := api.DiscoverModels(dir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if len(models) == 0 {
				log.Info("no models found", "path", dir)
				return nil
			}

			w := stdout(cmd)
			_, _ = fmt.Fprintf(w, "Models in %s:\n\n", dir)
			for _, m := range models {
				name := filepath.Base(m)
				info, err := os.Stat(m)
				if err != nil {
					_, _ = fmt.Fprintf(w, "  %s\n", name)
					continue
				}
				size := formatModelSize(info.Size())

				doc, err := ngramfile.ReadFile(m)
				if err != nil {
					log.Debug("skipping unreadable model", "path", m, "error", err)
					_, _ = fmt.Fprintf(w, "  %-40s %8s  (unreadable)\n", name, size)
					continue
				}
				n, err := doc.ContextSize()
				if err != nil {
					_, _ = fmt.Fprintf(w, "  %-40s %8s  (malformed)\n", name, size)
					continue
				}
				_, _ = fmt.Fprintf(w, "  %-40s %8s  (context %d, %d contexts)\n", name, size, n, len(doc))
			}
			_, _ = fmt.Fprintf(w, "\n%d model(s) found\n", len(models))
			return nil
		},
	}
}

func formatModelSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
