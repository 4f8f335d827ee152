package app

import (
	"context"
	"fmt"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
	tokenService "github.com/allisson/securetoken/internal/token/service"
	tokenUseCase "github.com/allisson/securetoken/internal/token/usecase"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() tokenService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = c.initKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() tokenService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = c.initAEADManager()
	})
	return c.aeadManager
}

// EnvelopeCodec returns the envelope codec.
func (c *Container) EnvelopeCodec() tokenService.EnvelopeCodec {
	c.envelopeCodecInit.Do(func() {
		c.envelopeCodec = c.initEnvelopeCodec()
	})
	return c.envelopeCodec
}

// CipherEngine returns the cipher engine for the configured algorithm.
func (c *Container) CipherEngine() (tokenService.CipherEngine, error) {
	var err error
	c.cipherEngineInit.Do(func() {
		c.cipherEngine, err = c.initCipherEngine()
		if err != nil {
			c.initErrors["cipherEngine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cipherEngine"]; exists {
		return nil, storedErr
	}
	return c.cipherEngine, nil
}

// KeyStore returns the key store loaded from configuration.
func (c *Container) KeyStore() (*tokenDomain.KeyStore, error) {
	var err error
	c.keyStoreInit.Do(func() {
		c.keyStore, err = c.initKeyStore()
		if err != nil {
			c.initErrors["keyStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// TokenUseCase returns the token use case, wrapped with metrics when enabled.
func (c *Container) TokenUseCase() (tokenUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// initKMSService creates the KMS service for unwrapping key secrets.
func (c *Container) initKMSService() tokenService.KMSService {
	return tokenService.NewKMSService()
}

// initAEADManager creates the AEAD manager service.
func (c *Container) initAEADManager() tokenService.AEADManager {
	return tokenService.NewAEADManager()
}

// initEnvelopeCodec creates the envelope codec with the configured decompression limit.
func (c *Container) initEnvelopeCodec() tokenService.EnvelopeCodec {
	return tokenService.NewEnvelopeCodec(int64(c.config.TokenMaxDecompressedBytes))
}

// initCipherEngine creates the cipher engine using the AEAD manager.
func (c *Container) initCipherEngine() (tokenService.CipherEngine, error) {
	alg, err := c.config.Algorithm()
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_ALGORITHM %q: %w", c.config.TokenAlgorithm, err)
	}

	return tokenService.NewCipherEngine(c.AEADManager(), alg)
}

// initKeyStore loads the key store from TOKEN_CURRENT_KEY and TOKEN_KEYS.
// An unset TOKEN_KEYS makes the current key the only decryption key.
func (c *Container) initKeyStore() (*tokenDomain.KeyStore, error) {
	current, err := c.config.CurrentKeyConfig()
	if err != nil {
		return nil, err
	}

	all, err := c.config.KeyConfigs()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		all = []tokenDomain.KeyConfig{current}
	}

	keyStore, err := tokenService.LoadKeyStore(
		context.Background(),
		c.KMSService(),
		c.config.KMSKeyURI,
		current,
		all,
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load key store: %w", err)
	}
	return keyStore, nil
}

// initTokenUseCase creates the tokenizer with all its dependencies.
func (c *Container) initTokenUseCase() (tokenUseCase.TokenUseCase, error) {
	keyStore, err := c.KeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get key store for token use case: %w", err)
	}

	cipherEngine, err := c.CipherEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher engine for token use case: %w", err)
	}

	baseUseCase := tokenUseCase.NewTokenizer(keyStore, cipherEngine, c.EnvelopeCodec())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		return tokenUseCase.NewTokenUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
