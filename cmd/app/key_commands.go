package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/securetoken/cmd/app/commands"
	"github.com/allisson/securetoken/internal/app"
	"github.com/allisson/securetoken/internal/config"
)

func kmsKeyURIFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kms-key-uri",
		Value:   "",
		Sources: cli.EnvVars("KMS_KEY_URI"),
		Usage:   "KMS key URI wrapping the secret (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
	}
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-key",
			Usage: "Generate a new token key and print its key store configuration",
			Flags: []cli.Flag{kmsKeyURIFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				return commands.RunCreateKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "rotate-key",
			Usage: "Generate a new current key, keeping existing keys for decryption",
			Flags: []cli.Flag{kmsKeyURIFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				return commands.RunRotateKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
					cfg.TokenCurrentKey,
					cfg.TokenKeys,
				)
			},
		},
	}
}
