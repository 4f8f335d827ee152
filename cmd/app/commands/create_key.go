package commands

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
	tokenService "github.com/allisson/securetoken/internal/token/service"
)

// generateKey creates a key with a UUIDv7 id and a random secret.
func generateKey() (*tokenDomain.Key, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key id: %w", err)
	}

	secret := make([]byte, tokenDomain.GeneratedSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate key secret: %w", err)
	}

	return &tokenDomain.Key{
		ID:        id.String(),
		Secret:    secret,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// RunCreateKey generates a new token key and prints the environment for a key store that
// uses it as the current and only key. When kmsKeyURI is set the secret is wrapped with
// KMS; otherwise it is printed as hex.
//
// Output format:
//   - TOKEN_CURRENT_KEY='{"uuid":"...","key":"...","timestamp":"..."}'
//   - TOKEN_KEYS='[{"uuid":"...","key":"...","timestamp":"..."}]'
//   - KMS_KEY_URI="<uri>" (KMS mode only)
func RunCreateKey(
	ctx context.Context,
	kmsService tokenService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	key, err := generateKey()
	if err != nil {
		return err
	}
	defer tokenDomain.Zero(key.Secret)

	cfg, err := keyConfigFor(ctx, kmsService, logger, kmsKeyURI, key)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, "# Token key configuration")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	if err := writeKeyEnv(writer, cfg, []tokenDomain.KeyConfig{cfg}, kmsKeyURI); err != nil {
		return err
	}

	logger.Info("token key created", slog.String("key_id", key.ID), slog.Bool("kms", kmsKeyURI != ""))
	return nil
}
