package domain

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/securetoken/internal/errors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: KindNone},
		{name: "invalid token", err: ErrInvalidToken, want: KindInvalidToken},
		{name: "wrapped invalid token", err: fmt.Errorf("%w: missing hash", ErrInvalidToken), want: KindInvalidToken},
		{name: "unknown key id", err: ErrUnknownKeyID, want: KindUnknownKeyID},
		{name: "unknown version", err: ErrUnknownVersion, want: KindUnknownVersion},
		{name: "invalid hash", err: ErrInvalidHash, want: KindInvalidHash},
		{name: "could not decompress", err: ErrCouldNotDecompress, want: KindCouldNotDecompress},
		{name: "unable to decode json", err: ErrUnableToDecodeJSON, want: KindUnableToDecodeJSON},
		{name: "base class alone is not a kind", err: apperrors.ErrInvalidInput, want: KindUnknown},
		{name: "context error", err: context.Canceled, want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrors_Classes(t *testing.T) {
	assert.ErrorIs(t, ErrUnknownKeyID, apperrors.ErrNotFound)
	assert.ErrorIs(t, ErrInvalidHash, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, ErrInvalidKeyStore, apperrors.ErrMisconfigured)
	assert.Contains(t, ErrCouldNotDecompress.Error(), "could not decompress token")
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "invalid_hash", KindInvalidHash.String())
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("aes-gcm")
	assert.NoError(t, err)
	assert.Equal(t, AESGCM, alg)

	alg, err = ParseAlgorithm("chacha20-poly1305")
	assert.NoError(t, err)
	assert.Equal(t, ChaCha20, alg)

	_, err = ParseAlgorithm("AES-GCM")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}
