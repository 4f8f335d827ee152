package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

// sealer adapts a cipher.AEAD to the AEAD interface. Every Encrypt call draws a fresh
// random nonce. Stateless past construction and safe for concurrent use.
type sealer struct {
	alg  tokenDomain.Algorithm
	aead cipher.AEAD
}

// NewAESGCM returns an AES-256-GCM AEAD (12-byte nonce, 16-byte tag).
func NewAESGCM(key []byte) (AEAD, error) {
	if len(key) != derivedKeySize {
		return nil, fmt.Errorf("%w: aes-gcm needs %d bytes, got %d",
			tokenDomain.ErrInvalidKeySize, derivedKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &sealer{alg: tokenDomain.AESGCM, aead: gcm}, nil
}

// NewChaCha20Poly1305 returns a ChaCha20-Poly1305 AEAD (12-byte nonce, 16-byte tag).
func NewChaCha20Poly1305(key []byte) (AEAD, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tokenDomain.ErrInvalidKeySize, err)
	}
	return &sealer{alg: tokenDomain.ChaCha20, aead: aead}, nil
}

func (s *sealer) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return s.aead.Seal(nil, nonce, plaintext, aad), nonce, nil
}

func (s *sealer) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != s.aead.NonceSize() {
		return nil, fmt.Errorf("invalid nonce size: expected %d, got %d", s.aead.NonceSize(), len(nonce))
	}

	plaintext, err := s.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("%s open failed: %w", s.alg, err)
	}
	return plaintext, nil
}

func (s *sealer) NonceSize() int {
	return s.aead.NonceSize()
}
