package usecase

import (
	"context"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

// TokenUseCase defines the token encryption and decryption operations.
type TokenUseCase interface {
	// Encrypt seals value under the current key.
	Encrypt(ctx context.Context, value any) (*tokenDomain.Token, error)

	// Open runs every validation gate and returns the raw JSON value with its issue time.
	Open(ctx context.Context, token *tokenDomain.Token) (*tokenDomain.Payload, error)

	// Decrypt opens the token and decodes the value into an untyped Go value.
	Decrypt(ctx context.Context, token *tokenDomain.Token) (any, error)

	// DecryptInto opens the token and decodes the value into out.
	DecryptInto(ctx context.Context, token *tokenDomain.Token, out any) error

	// KeyStore returns the key store the use case is bound to.
	KeyStore() *tokenDomain.KeyStore
}
