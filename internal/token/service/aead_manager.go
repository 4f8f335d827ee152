package service

import (
	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

var aeadConstructors = map[tokenDomain.Algorithm]func(key []byte) (AEAD, error){
	tokenDomain.AESGCM:   NewAESGCM,
	tokenDomain.ChaCha20: NewChaCha20Poly1305,
}

// AEADManagerService implements AEADManager over the supported algorithms.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns the AEAD for alg keyed with a 32-byte derived key.
// Returns ErrInvalidKeySize or ErrUnsupportedAlgorithm.
func (am *AEADManagerService) CreateCipher(key []byte, alg tokenDomain.Algorithm) (AEAD, error) {
	if len(key) != derivedKeySize {
		return nil, tokenDomain.ErrInvalidKeySize
	}

	newAEAD, ok := aeadConstructors[alg]
	if !ok {
		return nil, tokenDomain.ErrUnsupportedAlgorithm
	}
	return newAEAD(key)
}
