package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ngram/internal/logger"
	"github.com/samcharles93/ngram/internal/ngram"
	"github.com/samcharles93/ngram/internal/tokenizer"
)

func generateCmd() *cli.Command {
	var (
		prompt      string
		steps       int64
		noStart     bool
		interactive bool
		showTokens  bool
	)

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate text by repeatedly predicting the next token",
		Flags: append(append(modelSelectFlags(), modelConfigFlags()...),
			&cli.StringFlag{
				Name:        "prompt",
				Aliases:     []string{"p"},
				Usage:       "text to continue (empty starts a new sentence)",
				Destination: &prompt,
			},
			&cli.Int64Flag{
				Name:        "steps",
				Aliases:     []string{"n"},
				Usage:       "maximum number of tokens to generate",
				Value:       20,
				Destination: &steps,
			},
			&cli.BoolFlag{
				Name:        "no-start",
				Usage:       "do not prefix the prompt with the start-of-sentence marker",
				Destination: &noStart,
			},
			&cli.BoolFlag{
				Name:        "interactive",
				Aliases:     []string{"it"},
				Usage:       "read prompts from stdin, one per line, until /exit",
				Destination: &interactive,
			},
			&cli.BoolFlag{
				Name:        "show-tokens",
				Usage:       "print the raw token sequence, markers included",
				Destination: &showTokens,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyGenerateConfig(cmd, LoadConfig(), &steps)
			if steps < 0 {
				return cli.Exit("error: --steps must not be negative", 1)
			}
			m, _, err := openModel(ctx, modelConfig())
			if err != nil {
				return err
			}

			w := stdout(cmd)
			run := func(text string) {
				out := m.Generate(promptTokens(text, noStart), int(steps))
				if showTokens {
					_, _ = fmt.Fprintf(os.Stderr, "tokens: %q\n", out)
				}
				_, _ = fmt.Fprintln(w, tokenizer.Detokenize(out))
			}

			if !interactive {
				run(prompt)
				return nil
			}

			_, _ = fmt.Fprintln(os.Stderr, "Interactive mode. Type /exit to quit.")
			if prompt != "" {
				run(prompt)
			}
			for {
				line, err := readInteractiveLine("> ")
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: read prompt: %v", err), 1)
				}
				line = strings.TrimSpace(line)
				switch line {
				case "":
					continue
				case "/exit", "/quit":
					return nil
				case "/stats":
					printStats(w, m.Stats())
					continue
				}
				log.Debug("generating", "prompt", line, "steps", steps)
				run(line)
			}
		},
	}
}

func printStats(w io.Writer, st ngram.Stats) {
	_, _ = fmt.Fprintf(w, "context size:  %d\n", st.ContextSize)
	_, _ = fmt.Fprintf(w, "contexts:      %d\n", st.Contexts)
	_, _ = fmt.Fprintf(w, "continuations: %d\n", st.Continuations)
	_, _ = fmt.Fprintf(w, "observations:  %d\n", st.Observations)
}
