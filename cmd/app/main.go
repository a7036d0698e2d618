package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/atvirokodosprendimai/loginwatch/internal/app"
	"github.com/atvirokodosprendimai/loginwatch/internal/config"
	"github.com/atvirokodosprendimai/loginwatch/internal/logging"
)

// flagOverrides maps command-line flags to config paths. Only flags given
// explicitly override the file and environment.
var flagOverrides = map[string]string{
	"delivery":    "delivery",
	"log-level":   "logging.level",
	"log-format":  "logging.format",
	"status-addr": "status.addr",
}

func main() {
	cmd := &cli.Command{
		Name:  "loginwatch",
		Usage: "Send a notification for every successful login read from the auditd stream on stdin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Sources: cli.EnvVars(config.ConfigPathEnvVar),
				Usage:   "YAML config file path",
			},
			&cli.StringFlag{
				Name:  "delivery",
				Usage: "Notification transport: telegram or log",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "trace, debug, info, warn, error or disabled",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "json or console",
			},
			&cli.StringFlag{
				Name:  "status-addr",
				Usage: "Listen address for the status server (disabled when empty)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			overrides := map[string]any{}
			for flag, path := range flagOverrides {
				if c.IsSet(flag) {
					overrides[path] = c.String(flag)
				}
			}

			cfg, err := config.Load(config.Options{Path: c.String("config"), Overrides: overrides})
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pipeline, err := app.NewPipeline(ctx, cfg)
			if err != nil {
				return fmt.Errorf("create pipeline: %w", err)
			}
			defer func() {
				if closeErr := pipeline.Close(); closeErr != nil {
					logging.Warn().Err(closeErr).Msg("close resources")
				}
			}()

			logging.Info().Str("delivery", cfg.Delivery).Str("host", cfg.HostLabel).Msg("reading audit events from stdin")
			return pipeline.Run(ctx, os.Stdin, cfg.Status.Addr)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logging.Error().Err(err).Msg("loginwatch exited")
		os.Exit(1)
	}
}
