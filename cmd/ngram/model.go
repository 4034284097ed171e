package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ngram/internal/logger"
	"github.com/samcharles93/ngram/internal/ngram"
	"github.com/samcharles93/ngram/internal/tokenizer"
)

// openModel resolves and loads the model selected by --model/--models-path.
func openModel(ctx context.Context, cfg ngram.Config) (*ngram.Model, string, error) {
	log := logger.FromContext(ctx)

	path, err := resolveModelPath(modelPath, modelsPath, os.Stdin, os.Stderr)
	if err != nil {
		return nil, "", cli.Exit(fmt.Sprintf("error: resolve model: %v", err), 1)
	}
	m, err := ngram.Open(path, cfg, modelOptions(log)...)
	if err != nil {
		return nil, "", cli.Exit(fmt.Sprintf("error: open model: %v", err), 1)
	}
	st := m.Stats()
	log.Debug("opened model", "path", path, "context_size", st.ContextSize, "contexts", st.Contexts)
	return m, path, nil
}

func modelOptions(log logger.Logger) []ngram.Option {
	return []ngram.Option{
		ngram.WithSeed(seed),
		ngram.WithLogger(log),
	}
}

// promptTokens tokenizes a prompt and, unless noStart, prefixes the start
// sentinel so the model conditions on the beginning of a sentence.
func promptTokens(prompt string, noStart bool) []string {
	tokens := tokenizer.Tokenize(prompt)
	if noStart {
		return tokens
	}
	return tokenizer.AddStart(tokens)
}
