package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/synthkit/internal/logger"
	"github.com/samcharles93/synthkit/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    "synthkit",
		Usage:   "Synthetic mixed-type dataset generator and data-set fetcher",
		Version: version.String(),
		Flags:   globalFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := loadConfig(configFile, cmd.IsSet("config"))
			if err != nil {
				return ctx, err
			}
			appConfig = cfg
			applyLoggingConfig(cmd, cfg)

			log, err := logger.Setup(os.Stderr, logLevel, logFormat, stderrIsTTY())
			if err != nil {
				return ctx, err
			}
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			fetchCmd(),
			generateCmd(),
			serveCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
