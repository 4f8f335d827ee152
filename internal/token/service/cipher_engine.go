package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

// cipherEngine seals envelopes encrypt-then-MAC.
//
// Data layout: base64(nonce || ciphertext || tag). The AEAD additional data binds the
// ciphertext to the protocol version and key id, and the outer HMAC-SHA-256 (keyed by the
// raw secret) lets the decrypt pipeline reject tampered tokens before any decryption.
type cipherEngine struct {
	aeadManager AEADManager
	algorithm   tokenDomain.Algorithm
}

// NewCipherEngine creates a cipher engine sealing with the given algorithm.
// Returns ErrUnsupportedAlgorithm for unknown algorithms.
func NewCipherEngine(aeadManager AEADManager, alg tokenDomain.Algorithm) (CipherEngine, error) {
	if _, err := tokenDomain.ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}
	return &cipherEngine{aeadManager: aeadManager, algorithm: alg}, nil
}

// aead derives the key for secret and creates the configured cipher.
func (e *cipherEngine) aead(key *tokenDomain.Key) (AEAD, error) {
	derived, err := DeriveCipherKey(key.Secret, e.algorithm)
	if err != nil {
		return nil, err
	}
	defer tokenDomain.Zero(derived)

	return e.aeadManager.CreateCipher(derived, e.algorithm)
}

func additionalData(key *tokenDomain.Key) []byte {
	return []byte(tokenDomain.ProtocolVersion + ":" + key.ID)
}

// Encrypt seals plaintext under key and returns the base64 data field.
func (e *cipherEngine) Encrypt(plaintext []byte, key *tokenDomain.Key) (string, error) {
	cipher, err := e.aead(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	ciphertext, nonce, err := cipher.Encrypt(plaintext, additionalData(key))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt envelope: %w", err)
	}

	sealed := make([]byte, 0, len(nonce)+len(ciphertext))
	sealed = append(sealed, nonce...)
	sealed = append(sealed, ciphertext...)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens the base64 data field. All failures are reported as ErrDecryptionFailed.
func (e *cipherEngine) Decrypt(data string, key *tokenDomain.Key) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64", tokenDomain.ErrDecryptionFailed)
	}

	cipher, err := e.aead(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tokenDomain.ErrDecryptionFailed, err)
	}

	nonceSize := cipher.NonceSize()
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", tokenDomain.ErrDecryptionFailed)
	}

	plaintext, err := cipher.Decrypt(sealed[nonceSize:], sealed[:nonceSize], additionalData(key))
	if err != nil {
		return nil, tokenDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

func computeMAC(secret, message []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return mac.Sum(nil)
}

// MAC authenticates the decoded bytes of data with key.Secret.
func (e *cipherEngine) MAC(data string, key *tokenDomain.Key) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode data: %w", err)
	}
	return base64.StdEncoding.EncodeToString(computeMAC(key.Secret, raw)), nil
}

// VerifyMAC recomputes the MAC over data and compares it with hash in constant time.
func (e *cipherEngine) VerifyMAC(data, hash string, key *tokenDomain.Key) bool {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return false
	}
	given, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false
	}
	return hmac.Equal(computeMAC(key.Secret, raw), given)
}
