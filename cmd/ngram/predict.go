package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

func predictCmd() *cli.Command {
	var (
		prompt         string
		noStart        bool
		showCandidates bool
	)

	return &cli.Command{
		Name:  "predict",
		Usage: "Predict the token that follows a prompt",
		Flags: append(append(modelSelectFlags(), modelConfigFlags()...),
			&cli.StringFlag{
				Name:        "prompt",
				Aliases:     []string{"p"},
				Usage:       "whitespace-separated history to predict from",
				Destination: &prompt,
			},
			&cli.BoolFlag{
				Name:        "no-start",
				Usage:       "do not prefix the prompt with the start-of-sentence marker",
				Destination: &noStart,
			},
			&cli.BoolFlag{
				Name:        "show-candidates",
				Usage:       "print the ranked candidates the prediction was drawn from",
				Destination: &showCandidates,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyModelConfig(cmd, LoadConfig())
			m, _, err := openModel(ctx, modelConfig())
			if err != nil {
				return err
			}

			history := promptTokens(prompt, noStart)
			w := stdout(cmd)
			_, _ = fmt.Fprintln(w, m.Predict(history))
			if !showCandidates {
				return nil
			}

			match, ok := m.Resolve(history)
			if !ok {
				_, _ = fmt.Fprintln(w, "no matching context")
				return nil
			}
			ranked := m.Rank(history)
			k := m.Eligible(len(ranked))
			_, _ = fmt.Fprintf(w, "context: [%s] (%d of %d candidates eligible)\n", strings.Join(match.Context, " "), k, len(ranked))
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			for i, c := range ranked {
				mark := " "
				if i < k {
					mark = "*"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\n", mark, c.Token, c.Count)
			}
			return tw.Flush()
		},
	}
}
