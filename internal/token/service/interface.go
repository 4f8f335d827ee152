// Package service implements the cryptographic and encoding services behind the token
// pipeline: AEAD ciphers, HKDF key derivation, the encrypt-then-MAC cipher engine, the
// gzip envelope codec and KMS unwrapping of configured key secrets.
package service

import (
	"context"
	"time"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

// AEAD defines authenticated encryption with associated data.
type AEAD interface {
	// Encrypt seals plaintext under a fresh random nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext. Fails if the ciphertext, nonce or aad were altered.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length in bytes.
	NonceSize() int
}

// AEADManager creates AEAD instances for a 32-byte key and algorithm.
type AEADManager interface {
	CreateCipher(key []byte, alg tokenDomain.Algorithm) (AEAD, error)
}

// CipherEngine encrypts envelopes under a key and authenticates the result.
type CipherEngine interface {
	// Encrypt seals plaintext with a key derived from key.Secret and returns base64 data.
	Encrypt(plaintext []byte, key *tokenDomain.Key) (string, error)

	// Decrypt reverses Encrypt.
	Decrypt(data string, key *tokenDomain.Key) ([]byte, error)

	// MAC returns base64 HMAC-SHA-256 over the decoded bytes of data, keyed by key.Secret.
	MAC(data string, key *tokenDomain.Key) (string, error)

	// VerifyMAC reports whether hash authenticates data. Malformed base64 never matches.
	VerifyMAC(data, hash string, key *tokenDomain.Key) bool
}

// EnvelopeCodec turns values into envelope plaintext and back.
type EnvelopeCodec interface {
	// Wrap serializes value to JSON, compresses it and wraps it with issuedAt.
	Wrap(value any, issuedAt time.Time) ([]byte, error)

	// Unwrap parses envelope plaintext.
	Unwrap(plaintext []byte) (*tokenDomain.Envelope, error)

	// Compress gzips data.
	Compress(data []byte) ([]byte, error)

	// Decompress gunzips an envelope payload.
	Decompress(payload []byte) ([]byte, error)
}

// KMSService opens KMS keepers used to unwrap configured key secrets.
type KMSService interface {
	// OpenKeeper opens a keeper for the given key URI.
	// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
	OpenKeeper(ctx context.Context, keyURI string) (tokenDomain.KMSKeeper, error)
}
