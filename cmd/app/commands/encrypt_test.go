package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
	usecaseMocks "github.com/allisson/securetoken/internal/token/usecase/mocks"
)

func TestRunEncrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		tokenizer := newTestTokenizer(t, testKey2, testKey1, testKey2)

		var out bytes.Buffer
		streams := IOTuple{Reader: strings.NewReader(`{"foo": 1, "bar": ["baz"]}` + "\n"), Writer: &out}
		require.NoError(t, RunEncrypt(ctx, tokenizer, discardLogger(), streams))

		token, err := tokenDomain.ParseToken(out.Bytes())
		require.NoError(t, err)
		assert.Equal(t, testKey2.UUID, token.KeyID)
		assert.Equal(t, "0.1.0", token.Version)

		payload, err := tokenizer.Open(ctx, token)
		require.NoError(t, err)
		assert.JSONEq(t, `{"foo":1,"bar":["baz"]}`, string(payload.Value))
	})

	t.Run("invalid json", func(t *testing.T) {
		mockUC := &usecaseMocks.MockTokenUseCase{}

		var out bytes.Buffer
		streams := IOTuple{Reader: strings.NewReader(`{"foo":`), Writer: &out}
		err := RunEncrypt(ctx, mockUC, discardLogger(), streams)

		assert.ErrorContains(t, err, "input is not valid JSON")
		assert.Empty(t, out.String())
		mockUC.AssertNotCalled(t, "Encrypt", mock.Anything, mock.Anything)
	})

	t.Run("empty input", func(t *testing.T) {
		err := RunEncrypt(ctx, &usecaseMocks.MockTokenUseCase{}, discardLogger(), IOTuple{
			Reader: strings.NewReader("  \n"),
			Writer: &bytes.Buffer{},
		})
		assert.ErrorContains(t, err, "input is not valid JSON")
	})

	t.Run("use case failure", func(t *testing.T) {
		mockUC := &usecaseMocks.MockTokenUseCase{}
		mockUC.On("Encrypt", ctx, mock.Anything).Return(nil, errors.New("boom")).Once()

		err := RunEncrypt(ctx, mockUC, discardLogger(), IOTuple{
			Reader: strings.NewReader(`"x"`),
			Writer: &bytes.Buffer{},
		})
		assert.ErrorContains(t, err, "failed to encrypt value: boom")
		mockUC.AssertExpectations(t)
	})
}
