package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

func TestRunDecrypt(t *testing.T) {
	ctx := context.Background()
	encrypter := newTestTokenizer(t, testKey2, testKey1, testKey2)
	decrypter := newTestTokenizer(t, testKey1, testKey1, testKey2)

	token, err := encrypter.Encrypt(ctx, map[string]any{"foo": 1, "bar": []string{"baz"}})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		streams := IOTuple{Reader: strings.NewReader(token.String() + "\n"), Writer: &out}

		require.NoError(t, RunDecrypt(ctx, decrypter, discardLogger(), streams))
		assert.JSONEq(t, `{"foo":1,"bar":["baz"]}`, out.String())
	})

	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{name: "not json", input: "garbage", expected: tokenDomain.ErrInvalidToken},
		{name: "not an object", input: `[1,2]`, expected: tokenDomain.ErrInvalidToken},
		{name: "null", input: `null`, expected: tokenDomain.ErrInvalidToken},
		{name: "missing hash", input: `{"keyId":"a","version":"0.1.0","data":"AA=="}`, expected: tokenDomain.ErrInvalidToken},
		{
			name:     "unknown key",
			input:    `{"keyId":"nope","version":"0.1.0","data":"AA==","hash":"AA=="}`,
			expected: tokenDomain.ErrUnknownKeyID,
		},
		{
			name: "unknown version",
			input: strings.Replace(
				token.String(), `"version":"0.1.0"`, `"version":"0.2.0"`, 1,
			),
			expected: tokenDomain.ErrUnknownVersion,
		},
		{
			name: "invalid hash",
			input: (&tokenDomain.Token{
				KeyID: token.KeyID, Version: token.Version, Data: token.Data, Hash: "AAAA",
			}).String(),
			expected: tokenDomain.ErrInvalidHash,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := RunDecrypt(ctx, decrypter, discardLogger(), IOTuple{
				Reader: strings.NewReader(tt.input),
				Writer: &out,
			})
			assert.ErrorIs(t, err, tt.expected)
			assert.Empty(t, out.String())
		})
	}
}
