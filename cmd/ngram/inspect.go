package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ngram/internal/ngram"
)

const inspectContinuations = 3

func inspectCmd() *cli.Command {
	var top int64

	return &cli.Command{
		Name:  "inspect",
		Usage: "Print a model's configuration, counts and most frequent contexts",
		Flags: append(modelSelectFlags(),
			&cli.Int64Flag{
				Name:        "top",
				Aliases:     []string{"n"},
				Usage:       "number of contexts to list (0 = none)",
				Value:       10,
				Destination: &top,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyModelConfig(cmd, LoadConfig())
			// Only stored counts are shown, so the context size comes from
			// the file and the sampling settings do not matter.
			cfg := ngram.DefaultConfig()
			cfg.ContextSize = 0
			m, path, err := openModel(ctx, cfg)
			if err != nil {
				return err
			}

			w := stdout(cmd)
			_, _ = fmt.Fprintf(w, "model:         %s\n", path)
			printStats(w, m.Stats())
			if top > 0 {
				_, _ = fmt.Fprintln(w)
				return printTopContexts(w, m.Table(), int(top))
			}
			return nil
		},
	}
}

type contextSummary struct {
	context []string
	total   uint64
	counts  ngram.Counts
}

// topContexts returns the n contexts with the most observations, ties
// broken by their order in the table.
func topContexts(t *ngram.Table, n int) []contextSummary {
	var all []contextSummary
	t.Range(func(ctx []string, counts ngram.Counts) bool {
		all = append(all, contextSummary{context: ctx, total: counts.Total(), counts: counts})
		return true
	})
	slices.SortStableFunc(all, func(a, b contextSummary) int {
		return cmp.Compare(b.total, a.total)
	})
	return all[:min(n, len(all))]
}

func printTopContexts(w io.Writer, t *ngram.Table, n int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CONTEXT\tTOTAL\tTOP CONTINUATIONS")
	for _, s := range topContexts(t, n) {
		ranked := s.counts.Ranked()
		parts := make([]string, 0, inspectContinuations)
		for _, c := range ranked[:min(inspectContinuations, len(ranked))] {
			parts = append(parts, fmt.Sprintf("%s(%d)", c.Token, c.Count))
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", strings.Join(s.context, " "), s.total, strings.Join(parts, " "))
	}
	return tw.Flush()
}
