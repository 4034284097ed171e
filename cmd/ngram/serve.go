package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ngram/internal/api"
	"github.com/samcharles93/ngram/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve models over a JSON REST API",
		Flags: append(append(modelSelectFlags(), modelConfigFlags()...),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, LoadConfig(), &addr)

			cfg := modelConfig()
			if err := validateServeConfig(cfg.SamplingFraction); err != nil {
				return err
			}
			e := newEcho(api.ProviderConfig{
				DefaultModelPath: modelPath,
				ModelsPath:       modelsPath,
				Config:           cfg,
				Seed:             seed,
				Logger:           log,
			})
			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

// newEcho builds the HTTP handler serving the models described by cfg.
func newEcho(cfg api.ProviderConfig) *echo.Echo {
	server := api.NewServer(api.NewService(api.NewCachedModelProvider(cfg)))
	e := echo.New()
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	server.Register(e)
	return e
}

// validateServeConfig rejects settings every model would fail to open with,
// before the server starts accepting requests.
func validateServeConfig(fraction float64) error {
	if !(fraction > 0 && fraction <= 1) {
		return cli.Exit("error: --sampling-fraction must be in (0, 1]", 1)
	}
	if modelPath == "" && modelsDirOrEnv(modelsPath) == "" {
		return cli.Exit("error: --model or --models-path is required unless "+envModelsDir+" is set", 1)
	}
	return nil
}
