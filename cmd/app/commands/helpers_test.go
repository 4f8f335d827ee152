package commands

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
	tokenService "github.com/allisson/securetoken/internal/token/service"
	tokenUseCase "github.com/allisson/securetoken/internal/token/usecase"
)

type mockKMSKeeper struct {
	mock.Mock
}

func (m *mockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockKMSKeeper) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockKMSService struct {
	mock.Mock
}

func (m *mockKMSService) OpenKeeper(ctx context.Context, keyURI string) (tokenDomain.KMSKeeper, error) {
	args := m.Called(ctx, keyURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(tokenDomain.KMSKeeper), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	testKey1 = tokenDomain.KeyConfig{
		UUID:      "8ea74e99-91d5-4207-9822-7096900b44c5",
		Key:       "499d7d5db79b25d9be22197d869b38bb8b2dbb5e86ba3565b4fbd542e1b1bd33",
		Timestamp: "2014-03-25T10:47:19.342Z",
	}
	testKey2 = tokenDomain.KeyConfig{
		UUID:      "2022a43b-1699-46e9-9233-517a4dbeffd8",
		Key:       "647e49528b7e046c703c150295eb0f3643c0d42e62e91484df67892a9613e5d6",
		Timestamp: "2014-03-26T10:52:52.381Z",
	}
)

func newTestTokenizer(t *testing.T, current tokenDomain.KeyConfig, all ...tokenDomain.KeyConfig) *tokenUseCase.Tokenizer {
	t.Helper()
	keyStore, err := tokenDomain.NewKeyStoreFromConfig(current, all)
	require.NoError(t, err)

	engine, err := tokenService.NewCipherEngine(tokenService.NewAEADManager(), tokenDomain.AESGCM)
	require.NoError(t, err)

	return tokenUseCase.NewTokenizer(keyStore, engine, tokenService.NewEnvelopeCodec(0))
}
