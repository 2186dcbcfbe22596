package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/synthkit/internal/api"
	"github.com/samcharles93/synthkit/internal/fetch"
	"github.com/samcharles93/synthkit/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		dataDir     string
		baseURL     string
		maxAttempts int64
		timeout     time.Duration
		maxCells    int64
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the dataset REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "directory for files fetched through POST /v1/files",
				Value:       "data",
				Destination: &dataDir,
			},
			&cli.StringFlag{
				Name:        "base-url",
				Usage:       "repository base URL for fetched files",
				Value:       fetch.DefaultBaseURL,
				Destination: &baseURL,
			},
			&cli.Int64Flag{
				Name:        "max-attempts",
				Usage:       "download attempts per file",
				Value:       fetch.DefaultMaxAttempts,
				Destination: &maxAttempts,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "per-request download timeout",
				Value:       fetch.DefaultTimeout,
				Destination: &timeout,
			},
			&cli.Int64Flag{
				Name:        "max-cells",
				Usage:       "largest dataset (rows*cols) a single request may generate",
				Value:       api.DefaultMaxCells,
				Destination: &maxCells,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, appConfig, &addr)
			applyFetchConfig(cmd, appConfig, &baseURL, &maxAttempts, &timeout)

			server := api.NewServer(api.Config{
				Store:   api.NewDatasetStore(),
				DataDir: resolveDataDir(cmd, "data-dir", dataDir, appConfig),
				Fetcher: fetch.New(fetch.Config{
					BaseURL:     baseURL,
					MaxAttempts: int(maxAttempts),
					Timeout:     timeout,
					Logger:      log,
				}),
				MaxCells: int(maxCells),
				Logger:   log,
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
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
