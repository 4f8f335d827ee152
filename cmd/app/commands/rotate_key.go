package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/securetoken/internal/config"
	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
	tokenService "github.com/allisson/securetoken/internal/token/service"
)

// RunRotateKey generates a new key, makes it current, and prints the new environment. The
// previous current key and every existing key stay in TOKEN_KEYS so tokens minted under
// them keep decrypting. Existing entries are copied verbatim, so they must already use the
// same encoding (plain hex or KMS-wrapped under kmsKeyURI) as the new key.
func RunRotateKey(
	ctx context.Context,
	kmsService tokenService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI, existingCurrentKey, existingKeys string,
) error {
	existing := &config.Config{TokenCurrentKey: existingCurrentKey, TokenKeys: existingKeys}

	previous, err := existing.CurrentKeyConfig()
	if err != nil {
		return fmt.Errorf("cannot rotate without an existing key: %w", err)
	}
	keys, err := existing.KeyConfigs()
	if err != nil {
		return err
	}

	found := false
	for _, k := range keys {
		if k.UUID == previous.UUID {
			found = true
			break
		}
	}
	if !found {
		keys = append(keys, previous)
	}

	key, err := generateKey()
	if err != nil {
		return err
	}
	defer tokenDomain.Zero(key.Secret)

	cfg, err := keyConfigFor(ctx, kmsService, logger, kmsKeyURI, key)
	if err != nil {
		return err
	}
	keys = append(keys, cfg)

	_, _ = fmt.Fprintln(writer, "# Token key rotation")
	_, _ = fmt.Fprintln(writer, "# Update these environment variables in your .env file or secrets manager")
	if err := writeKeyEnv(writer, cfg, keys, kmsKeyURI); err != nil {
		return err
	}

	logger.Info("token key rotated",
		slog.String("previous_key_id", previous.UUID),
		slog.String("key_id", key.ID),
		slog.Int("decrypt_keys", len(keys)),
	)
	return nil
}
