package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ngram/internal/corpus"
	"github.com/samcharles93/ngram/internal/logger"
	"github.com/samcharles93/ngram/internal/ngram"
)

func trainCmd() *cli.Command {
	var (
		corpusPath string
		tiny       bool
		outPath    string
		appendTo   bool
	)

	return &cli.Command{
		Name:  "train",
		Usage: "Train a model on a line-per-sentence corpus and save it",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "corpus",
				Aliases:     []string{"i"},
				Usage:       "text file with one training sentence per line",
				Destination: &corpusPath,
			},
			&cli.BoolFlag{
				Name:        "tiny",
				Usage:       "train on the built-in demo corpus",
				Destination: &tiny,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output model path (default: <models-path or ./out>/<corpus>.json)",
				Destination: &outPath,
			},
			&cli.BoolFlag{
				Name:        "append",
				Usage:       "add counts to the model already stored at the output path",
				Destination: &appendTo,
			},
			&cli.StringFlag{
				Name:        "models-path",
				Aliases:     []string{"path"},
				Usage:       "directory the model is written to when --out is not set",
				Destination: &modelsPath,
			},
		}, modelConfigFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyModelConfig(cmd, LoadConfig())

			var (
				lines []string
				name  string
				err   error
			)
			switch {
			case tiny && corpusPath != "":
				return cli.Exit("error: --corpus and --tiny are mutually exclusive", 1)
			case tiny:
				lines, name = corpus.Tiny(), "tiny"
			case corpusPath != "":
				if lines, err = corpus.ReadFile(corpusPath); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				name = corpusPath
			default:
				return cli.Exit("error: --corpus or --tiny is required", 1)
			}

			out, err := resolveTrainOut(outPath, name, modelsPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: resolve output: %v", err), 1)
			}

			m, err := trainTarget(out, appendTo, log)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			seqs, skipped := corpus.Prepare(lines, m.Config().Window())
			if skipped > 0 {
				log.Warn("skipped sequences shorter than the n-gram window", "skipped", skipped, "window", m.Config().Window())
			}
			if err := m.Train(seqs); err != nil {
				return cli.Exit(fmt.Sprintf("error: train: %v", err), 1)
			}
			if err := m.SaveFile(out); err != nil {
				return cli.Exit(fmt.Sprintf("error: save: %v", err), 1)
			}

			st := m.Stats()
			log.Info("trained model", "path", out, "sequences", len(seqs), "contexts", st.Contexts, "observations", st.Observations)
			_, _ = fmt.Fprintf(stdout(cmd), "saved %s (%d contexts, context size %d)\n", out, st.Contexts, st.ContextSize)
			return nil
		},
	}
}

// trainTarget returns the model to train: the one stored at path when
// appending to an existing file, otherwise a new empty model.
func trainTarget(path string, appendTo bool, log logger.Logger) (*ngram.Model, error) {
	cfg := modelConfig()
	if appendTo {
		m, err := ngram.Open(path, cfg, modelOptions(log)...)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Info("no existing model, starting empty", "path", path)
	} else if _, err := os.Stat(path); err == nil {
		log.Warn("overwriting existing model", "path", path)
	}

	if cfg.ContextSize == 0 {
		cfg.ContextSize = ngram.DefaultConfig().ContextSize
	}
	return ngram.New(cfg, modelOptions(log)...)
}
