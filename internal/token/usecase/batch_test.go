package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
	tokenService "github.com/allisson/securetoken/internal/token/service"
	"github.com/allisson/securetoken/internal/token/usecase"
	usecaseMocks "github.com/allisson/securetoken/internal/token/usecase/mocks"
)

func newBatchTokenizer(t *testing.T) *usecase.Tokenizer {
	t.Helper()
	keyStore, err := tokenDomain.NewKeyStore(
		&tokenDomain.Key{ID: "k1", Secret: []byte("0123456789abcdef0123456789abcdef")},
		[]*tokenDomain.Key{{ID: "k1", Secret: []byte("0123456789abcdef0123456789abcdef")}},
	)
	require.NoError(t, err)

	engine, err := tokenService.NewCipherEngine(tokenService.NewAEADManager(), tokenDomain.ChaCha20)
	require.NoError(t, err)
	return usecase.NewTokenizer(keyStore, engine, tokenService.NewEnvelopeCodec(0))
}

func TestBatch_RoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	tokenizer := newBatchTokenizer(t)

	values := make([]any, 50)
	for i := range values {
		values[i] = map[string]any{"n": i}
	}

	tokens, err := usecase.BatchEncrypt(ctx, tokenizer, values, 4)
	require.NoError(t, err)
	require.Len(t, tokens, len(values))

	// a rejected token in the middle does not stop the batch
	tokens[10] = &tokenDomain.Token{KeyID: "k1", Version: "0.0.1", Data: "AA==", Hash: "AA=="}
	tokens[20] = nil

	results, err := usecase.BatchDecrypt(ctx, tokenizer, tokens, 4)
	require.NoError(t, err)
	require.Len(t, results, len(tokens))

	for i, result := range results {
		switch i {
		case 10:
			assert.ErrorIs(t, result.Err, tokenDomain.ErrUnknownVersion)
			assert.Nil(t, result.Payload)
		case 20:
			assert.ErrorIs(t, result.Err, tokenDomain.ErrInvalidToken)
		default:
			require.NoError(t, result.Err, "item %d", i)
			var decoded map[string]int
			require.NoError(t, json.Unmarshal(result.Payload.Value, &decoded))
			assert.Equal(t, i, decoded["n"], "results keep input order")
		}
	}
}

func TestBatch_EmptyInput(t *testing.T) {
	defer goleak.VerifyNone(t)

	tokens, err := usecase.BatchEncrypt(context.Background(), newBatchTokenizer(t), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, tokens)

	results, err := usecase.BatchDecrypt(context.Background(), newBatchTokenizer(t), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBatchEncrypt_StopsOnError(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	mockUC := &usecaseMocks.MockTokenUseCase{}
	expectedErr := errors.New("encrypt failed")

	mockUC.On("Encrypt", mock.Anything, "bad").Return(nil, expectedErr)
	mockUC.On("Encrypt", mock.Anything, mock.Anything).
		Return(&tokenDomain.Token{KeyID: "k1"}, nil).
		Maybe()

	tokens, err := usecase.BatchEncrypt(ctx, mockUC, []any{"a", "bad", "c"}, 1)
	assert.ErrorIs(t, err, expectedErr)
	assert.Nil(t, tokens)
}

func TestBatch_CanceledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockUC := &usecaseMocks.MockTokenUseCase{}

	tokens, err := usecase.BatchEncrypt(ctx, mockUC, []any{"a", "b"}, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, tokens)

	results, err := usecase.BatchDecrypt(ctx, mockUC, []*tokenDomain.Token{{}, {}}, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)

	mockUC.AssertNotCalled(t, "Encrypt", mock.Anything, mock.Anything)
	mockUC.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
}
