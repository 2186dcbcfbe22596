package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/synthkit/internal/fetch"
	"github.com/samcharles93/synthkit/internal/logger"
)

func fetchCmd() *cli.Command {
	var (
		outDir      string
		baseURL     string
		maxAttempts int64
		timeout     time.Duration
	)

	return &cli.Command{
		Name:      "fetch",
		Usage:     "Download data-set files from the remote repository",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory (created if missing, parents are not)",
				Value:       "data",
				Destination: &outDir,
			},
			&cli.StringFlag{
				Name:        "base-url",
				Usage:       "repository base URL, file names are appended verbatim",
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
				Usage:       "per-request timeout",
				Value:       fetch.DefaultTimeout,
				Destination: &timeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return cli.Exit("error: at least one file name is required", 1)
			}
			applyFetchConfig(cmd, appConfig, &baseURL, &maxAttempts, &timeout)
			dir := resolveDataDir(cmd, "out", outDir, appConfig)

			f := fetch.New(fetch.Config{
				BaseURL:     baseURL,
				MaxAttempts: int(maxAttempts),
				Timeout:     timeout,
				Logger:      logger.FromContext(ctx),
			})
			return fetchAll(ctx, f, dir, files, os.Stdout)
		},
	}
}

// fetchAll downloads every file, printing one line per file, and returns the
// joined failures.
func fetchAll(ctx context.Context, f *fetch.Fetcher, dir string, files []string, out io.Writer) error {
	var errs []error
	for _, name := range files {
		res, err := f.Fetch(ctx, name, dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		status := "downloaded"
		if res.Cached {
			status = "present"
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\n", status, res.Path)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d files failed: %w", len(errs), len(files), errors.Join(errs...))
	}
	return nil
}
