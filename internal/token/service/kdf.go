package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

// derivedKeySize is the length of every derived AEAD key.
const derivedKeySize = 32

// DeriveCipherKey derives the AEAD key for a token key with HKDF-SHA-256.
//
// The raw secret is the input keying material, the salt is empty, and the info string
// binds the derived key to the protocol version and algorithm:
//
//	info = "securetoken/" + ProtocolVersion + "/" + algorithm
//
// The HMAC over token data uses the raw secret, never this derived key. Callers should
// Zero the returned slice when done.
func DeriveCipherKey(secret []byte, alg tokenDomain.Algorithm) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty secret", tokenDomain.ErrInvalidKeySize)
	}

	info := []byte("securetoken/" + tokenDomain.ProtocolVersion + "/" + alg.String())
	stream := hkdf.New(sha256.New, secret, nil, info)

	key := make([]byte, derivedKeySize)
	if _, err := io.ReadFull(stream, key); err != nil {
		return nil, fmt.Errorf("failed to derive cipher key: %w", err)
	}
	return key, nil
}
