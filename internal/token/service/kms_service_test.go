package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"

	"gocloud.dev/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, keeper.Close())
		}()

		_, ok := keeper.(*secrets.Keeper)
		assert.True(t, ok, "keeper should be *secrets.Keeper")
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "invalid://uri")
		assert.ErrorContains(t, err, "failed to open KMS keeper")
		assert.Nil(t, keeper)
	})

	t.Run("Error_EmptyURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "")
		assert.Error(t, err)
		assert.Nil(t, keeper)
	})
}

func TestWrapUnwrapKeyConfig(t *testing.T) {
	ctx := context.Background()
	keeper, err := NewKMSService().OpenKeeper(ctx, generateLocalSecretsURI(t))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper.Close())
	}()

	key := &tokenDomain.Key{
		ID:        "0190a0b4-6f1e-7c3a-9d2b-5e8f4a1c2d3e",
		Secret:    bytes.Repeat([]byte{0x7a}, 32),
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	wrapped, err := WrapKey(ctx, keeper, key)
	require.NoError(t, err)
	assert.Equal(t, key.ID, wrapped.UUID)
	assert.Equal(t, "2024-01-01T00:00:00Z", wrapped.Timestamp)
	assert.NotEqual(t, tokenDomain.NewKeyConfig(key).Key, wrapped.Key)

	t.Run("unwrap restores secret", func(t *testing.T) {
		plain, err := UnwrapKeyConfig(ctx, keeper, wrapped)
		require.NoError(t, err)
		assert.Equal(t, tokenDomain.NewKeyConfig(key), plain)

		restored, err := plain.ToKey()
		require.NoError(t, err)
		assert.Equal(t, key.Secret, restored.Secret)
	})

	t.Run("not base64", func(t *testing.T) {
		bad := wrapped
		bad.Key = "zz not base64"
		_, err := UnwrapKeyConfig(ctx, keeper, bad)
		assert.ErrorIs(t, err, tokenDomain.ErrInvalidKeyConfig)
	})

	t.Run("other keeper", func(t *testing.T) {
		other, err := NewKMSService().OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, other.Close())
		}()

		_, err = UnwrapKeyConfig(ctx, other, wrapped)
		assert.ErrorContains(t, err, "failed to decrypt key")
	})
}
