// Package usecase implements the token pipeline on top of the token services.
//
// The Tokenizer binds one immutable KeyStore to the protocol version. Encryption always
// uses the current key; decryption accepts any key in the store's lookup table and runs
// the validation gates in a fixed order, so the first failing check decides the error:
//
//	tokenizer := usecase.NewTokenizer(keyStore, cipherEngine, envelopeCodec)
//
//	token, err := tokenizer.Encrypt(ctx, map[string]any{"user": 42})
//	value, err := tokenizer.Decrypt(ctx, token)
//	switch tokenDomain.KindOf(err) { ... }
//
// Rotation is done by building a new KeyStore and a new Tokenizer.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
	tokenService "github.com/allisson/securetoken/internal/token/service"
)

// Tokenizer implements TokenUseCase.
type Tokenizer struct {
	keyStore      *tokenDomain.KeyStore
	cipherEngine  tokenService.CipherEngine
	envelopeCodec tokenService.EnvelopeCodec
	now           func() time.Time
}

// NewTokenizer creates a Tokenizer bound to keyStore.
func NewTokenizer(
	keyStore *tokenDomain.KeyStore,
	cipherEngine tokenService.CipherEngine,
	envelopeCodec tokenService.EnvelopeCodec,
) *Tokenizer {
	return &Tokenizer{
		keyStore:      keyStore,
		cipherEngine:  cipherEngine,
		envelopeCodec: envelopeCodec,
		now:           time.Now,
	}
}

// KeyStore returns the bound key store.
func (t *Tokenizer) KeyStore() *tokenDomain.KeyStore {
	return t.keyStore
}

// Encrypt serializes, compresses, encrypts and authenticates value under the current key.
func (t *Tokenizer) Encrypt(ctx context.Context, value any) (*tokenDomain.Token, error) {
	key := t.keyStore.Current()

	plaintext, err := t.envelopeCodec.Wrap(value, t.now())
	if err != nil {
		return nil, err
	}
	defer tokenDomain.Zero(plaintext)

	data, err := t.cipherEngine.Encrypt(plaintext, key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt token: %w", err)
	}

	hash, err := t.cipherEngine.MAC(data, key)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate token: %w", err)
	}

	return &tokenDomain.Token{
		KeyID:   key.ID,
		Version: tokenDomain.ProtocolVersion,
		Data:    data,
		Hash:    hash,
	}, nil
}

// Open validates token and returns its payload. Errors are members of the token error
// taxonomy; see tokenDomain.KindOf.
func (t *Tokenizer) Open(ctx context.Context, token *tokenDomain.Token) (*tokenDomain.Payload, error) {
	if err := token.Validate(); err != nil {
		return nil, err
	}

	key, ok := t.keyStore.Lookup(token.KeyID)
	if !ok {
		return nil, tokenDomain.ErrUnknownKeyID
	}

	if token.Version != tokenDomain.ProtocolVersion {
		return nil, tokenDomain.ErrUnknownVersion
	}

	if !t.cipherEngine.VerifyMAC(token.Data, token.Hash, key) {
		return nil, tokenDomain.ErrInvalidHash
	}

	// A valid MAC with an undecryptable body means the token was forged with the key
	// secret or the process runs with a different algorithm.
	plaintext, err := t.cipherEngine.Decrypt(token.Data, key)
	if err != nil {
		return nil, tokenDomain.ErrInvalidHash
	}
	defer tokenDomain.Zero(plaintext)

	envelope, err := t.envelopeCodec.Unwrap(plaintext)
	if err != nil {
		return nil, tokenDomain.ErrInvalidHash
	}

	data, err := t.envelopeCodec.Decompress(envelope.Payload)
	if err != nil {
		return nil, tokenDomain.ErrCouldNotDecompress
	}

	if !json.Valid(data) {
		return nil, tokenDomain.ErrUnableToDecodeJSON
	}

	return &tokenDomain.Payload{
		IssuedAt: envelope.IssuedAt,
		Value:    json.RawMessage(data),
	}, nil
}

// Decrypt opens token and decodes its value. Objects decode to map[string]any, arrays to
// []any and numbers to float64.
func (t *Tokenizer) Decrypt(ctx context.Context, token *tokenDomain.Token) (any, error) {
	var value any
	if err := t.DecryptInto(ctx, token, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// DecryptInto opens token and unmarshals its value into out. A value that does not fit
// out's type is reported as a plain error, since the token itself is valid.
func (t *Tokenizer) DecryptInto(ctx context.Context, token *tokenDomain.Token, out any) error {
	payload, err := t.Open(ctx, token)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(payload.Value, out); err != nil {
		return fmt.Errorf("failed to decode token value: %w", err)
	}
	return nil
}
