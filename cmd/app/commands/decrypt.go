package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
	tokenUseCase "github.com/allisson/securetoken/internal/token/usecase"
)

// RunDecrypt reads one token as JSON and writes the value it carries. A rejected token is
// logged with its error kind and returned.
func RunDecrypt(
	ctx context.Context,
	uc tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	streams IOTuple,
) error {
	input, err := io.ReadAll(streams.Reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	token, err := tokenDomain.ParseToken(input)
	var payload *tokenDomain.Payload
	if err == nil {
		payload, err = uc.Open(ctx, token)
	}
	if err != nil {
		logger.Error("token rejected", slog.String("kind", tokenDomain.KindOf(err).String()))
		return err
	}

	logger.Debug("token decrypted",
		slog.String("key_id", token.KeyID),
		slog.Time("issued_at", payload.IssuedAt),
	)
	_, _ = fmt.Fprintln(streams.Writer, string(payload.Value))
	return nil
}
