package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ngram/internal/logger"
	"github.com/samcharles93/ngram/internal/version"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "ngram",
		Usage:   "Train, query and serve backoff n-gram language models",
		Version: version.String(),
		Flags:   loggingFlags(),
		Before:  setupLogging,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			trainCmd(),
			predictCmd(),
			generateCmd(),
			inspectCmd(),
			listModelsCmd(),
			serveCmd(),
			versionCmd(),
		},
	}
}

// setupLogging builds the process logger from the logging flags and the
// config file and stores it on the context for every subcommand.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	applyLogConfig(cmd, LoadConfig())
	level := logLevel
	if debug {
		level = "debug"
	}
	log, err := logger.New(os.Stderr, logFormat, logger.ParseLevel(level))
	if err != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	return logger.WithContext(ctx, log), nil
}

// stdout is where command output goes. Tests swap the root writer.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
