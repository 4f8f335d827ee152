package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/securetoken/cmd/app/commands"
	"github.com/allisson/securetoken/internal/app"
	"github.com/allisson/securetoken/internal/config"
)

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Value:   "",
		Usage:   "Read input from this file instead of stdin",
	}
}

// openIO returns the command streams, reading from path when it is set.
func openIO(path string) (commands.IOTuple, func(), error) {
	streams := commands.DefaultIO()
	if path == "" {
		return streams, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return commands.IOTuple{}, nil, fmt.Errorf("failed to open input: %w", err)
	}
	streams.Reader = f
	return streams, func() { _ = f.Close() }, nil
}

// loadContainer loads and validates configuration and builds the container.
func loadContainer() (*config.Config, *app.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, app.NewContainer(cfg), nil
}

func getTokenCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt",
			Usage: "Encrypt a JSON value into a token",
			Flags: []cli.Flag{inputFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				_, container, err := loadContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				uc, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				streams, closeInput, err := openIO(cmd.String("input"))
				if err != nil {
					return err
				}
				defer closeInput()

				return commands.RunEncrypt(ctx, uc, container.Logger(), streams)
			},
		},
		{
			Name:  "decrypt",
			Usage: "Validate a token and print the JSON value it carries",
			Flags: []cli.Flag{inputFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				_, container, err := loadContainer()
				if err != nil {
					return err
				}
				defer commands.CloseContainer(container, container.Logger())

				uc, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				streams, closeInput, err := openIO(cmd.String("input"))
				if err != nil {
					return err
				}
				defer closeInput()

				return commands.RunDecrypt(ctx, uc, container.Logger(), streams)
			},
		},
		{
			Name:  "batch",
			Usage: "Encrypt or decrypt JSON Lines in parallel",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "mode",
					Aliases:  []string{"m"},
					Required: true,
					Usage:    "Batch mode: 'encrypt' or 'decrypt'",
				},
				inputFlag(),
				&cli.IntFlag{
					Name:    "concurrency",
					Aliases: []string{"c"},
					Value:   0,
					Usage:   "Tokens processed in parallel (defaults to BATCH_CONCURRENCY)",
				},
				&cli.StringFlag{
					Name:  "metrics-output",
					Value: "",
					Usage: "Write a Prometheus text snapshot to this file (requires METRICS_ENABLED=true)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, container, err := loadContainer()
				if err != nil {
					return err
				}
				logger := container.Logger()
				defer commands.CloseContainer(container, logger)

				uc, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				streams, closeInput, err := openIO(cmd.String("input"))
				if err != nil {
					return err
				}
				defer closeInput()

				concurrency := int(cmd.Int("concurrency"))
				if concurrency <= 0 {
					concurrency = cfg.BatchConcurrency
				}

				if err := commands.RunBatch(ctx, uc, logger, streams, cmd.String("mode"), concurrency); err != nil {
					return err
				}

				metricsOutput := cmd.String("metrics-output")
				if metricsOutput == "" {
					return nil
				}
				provider, err := container.MetricsProvider()
				if err != nil {
					return err
				}
				if provider == nil {
					logger.Warn("metrics disabled, skipping metrics output", slog.String("path", metricsOutput))
					return nil
				}
				return commands.WriteMetricsFile(provider, metricsOutput)
			},
		},
	}
}
