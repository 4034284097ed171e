package main

import (
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ngram/internal/ngram"
)

var (
	modelPath        string
	modelsPath       string
	contextSize      int64
	smoothing        bool
	samplingFraction float64
	seed             int64
	logLevel         string
	logFormat        string
	debug            bool
)

func modelSelectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "path to a .json model file",
			Destination: &modelPath,
		},
		&cli.StringFlag{
			Name:        "models-path",
			Aliases:     []string{"path"},
			Usage:       "path to directory containing .json models",
			Destination: &modelsPath,
		},
	}
}

func modelConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "context-size",
			Aliases:     []string{"ctx", "c"},
			Usage:       "tokens of context per prediction (0 = taken from the model file)",
			Destination: &contextSize,
		},
		&cli.BoolFlag{
			Name:        "smoothing",
			Usage:       "back off to shorter contexts when the full context is unseen",
			Value:       true,
			Destination: &smoothing,
		},
		&cli.Float64Flag{
			Name:        "sampling-fraction",
			Aliases:     []string{"f"},
			Usage:       "fraction of the ranked candidates to sample from, in (0, 1]",
			Value:       1,
			Destination: &samplingFraction,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "random seed for sampling (-1 = random)",
			Value:       -1,
			Destination: &seed,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// modelConfig is the model configuration selected by the flags. A zero
// ContextSize means "whatever the model file says".
func modelConfig() ngram.Config {
	return ngram.Config{
		ContextSize:      int(contextSize),
		Smoothing:        smoothing,
		SamplingFraction: samplingFraction,
	}
}
