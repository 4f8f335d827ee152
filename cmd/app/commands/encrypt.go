package commands

import (
	"context"
	"fmt"
	"log/slog"

	tokenUseCase "github.com/allisson/securetoken/internal/token/usecase"
)

// RunEncrypt reads one JSON value and writes its token as JSON.
func RunEncrypt(
	ctx context.Context,
	uc tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	streams IOTuple,
) error {
	value, err := readJSON(streams.Reader)
	if err != nil {
		return err
	}

	token, err := uc.Encrypt(ctx, value)
	if err != nil {
		return fmt.Errorf("failed to encrypt value: %w", err)
	}

	logger.Debug("token encrypted", slog.String("key_id", token.KeyID))
	_, _ = fmt.Fprintln(streams.Writer, token.String())
	return nil
}
