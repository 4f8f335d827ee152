// Package commands contains CLI command implementations for the application.
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/securetoken/internal/app"
	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
	tokenService "github.com/allisson/securetoken/internal/token/service"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// CloseContainer closes all resources in the container and logs any errors.
func CloseContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// readJSON reads all input and returns it as raw JSON.
func readJSON(reader io.Reader) (json.RawMessage, error) {
	input, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var value json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(input), &value); err != nil {
		return nil, fmt.Errorf("input is not valid JSON: %w", err)
	}
	return value, nil
}

// keyConfigFor renders the configuration entry of key, wrapping the secret with KMS when
// kmsKeyURI is set.
func keyConfigFor(
	ctx context.Context,
	kmsService tokenService.KMSService,
	logger *slog.Logger,
	kmsKeyURI string,
	key *tokenDomain.Key,
) (tokenDomain.KeyConfig, error) {
	if kmsKeyURI == "" {
		return tokenDomain.NewKeyConfig(key), nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return tokenDomain.KeyConfig{}, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	return tokenService.WrapKey(ctx, keeper, key)
}

// writeKeyEnv prints the environment for a key store configuration.
func writeKeyEnv(
	writer io.Writer,
	current tokenDomain.KeyConfig,
	keys []tokenDomain.KeyConfig,
	kmsKeyURI string,
) error {
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("failed to encode current key: %w", err)
	}
	keysJSON, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to encode keys: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "TOKEN_CURRENT_KEY='%s'\n", currentJSON)
	_, _ = fmt.Fprintf(writer, "TOKEN_KEYS='%s'\n", keysJSON)
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	}
	return nil
}
