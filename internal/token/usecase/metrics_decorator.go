package usecase

import (
	"context"
	"time"

	"github.com/allisson/securetoken/internal/metrics"
	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

const (
	metricsDomain    = "token"
	operationEncrypt = "token_encrypt"
	operationDecrypt = "token_decrypt"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
//
// Encrypt records status "success" or "error". Decrypt operations record "success" or the
// error kind of the failing gate ("invalid_hash", "unknown_key_id", ...), so rejected
// tokens can be told apart on a dashboard.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenUseCaseWithMetrics) record(ctx context.Context, operation, status string, start time.Time) {
	t.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	t.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func decryptStatus(err error) string {
	if err == nil {
		return "success"
	}
	return tokenDomain.KindOf(err).String()
}

// Encrypt records metrics for token encryption.
func (t *tokenUseCaseWithMetrics) Encrypt(ctx context.Context, value any) (*tokenDomain.Token, error) {
	start := time.Now()
	token, err := t.next.Encrypt(ctx, value)

	status := "success"
	if err != nil {
		status = "error"
	}
	t.record(ctx, operationEncrypt, status, start)

	return token, err
}

// Open records metrics for token decryption.
func (t *tokenUseCaseWithMetrics) Open(
	ctx context.Context,
	token *tokenDomain.Token,
) (*tokenDomain.Payload, error) {
	start := time.Now()
	payload, err := t.next.Open(ctx, token)
	t.record(ctx, operationDecrypt, decryptStatus(err), start)
	return payload, err
}

// Decrypt records metrics for token decryption.
func (t *tokenUseCaseWithMetrics) Decrypt(ctx context.Context, token *tokenDomain.Token) (any, error) {
	start := time.Now()
	value, err := t.next.Decrypt(ctx, token)
	t.record(ctx, operationDecrypt, decryptStatus(err), start)
	return value, err
}

// DecryptInto records metrics for token decryption.
func (t *tokenUseCaseWithMetrics) DecryptInto(ctx context.Context, token *tokenDomain.Token, out any) error {
	start := time.Now()
	err := t.next.DecryptInto(ctx, token, out)
	t.record(ctx, operationDecrypt, decryptStatus(err), start)
	return err
}

// KeyStore delegates to the wrapped use case.
func (t *tokenUseCaseWithMetrics) KeyStore() *tokenDomain.KeyStore {
	return t.next.KeyStore()
}
