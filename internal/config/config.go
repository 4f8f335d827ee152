// Package config provides application configuration through environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	apperrors "github.com/allisson/securetoken/internal/errors"
	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// TokenCurrentKey is the JSON key configuration of the key used to encrypt new tokens.
	TokenCurrentKey string
	// TokenKeys is the JSON array of key configurations eligible for decryption.
	// When empty, only the current key can decrypt.
	TokenKeys string
	// TokenAlgorithm is the AEAD algorithm ("aes-gcm" or "chacha20-poly1305").
	TokenAlgorithm string
	// TokenMaxDecompressedBytes caps the size a token payload may inflate to.
	TokenMaxDecompressedBytes int

	// KMSProvider is the KMS provider to use (e.g., "google", "aws", "azure", "vault", "localsecrets").
	KMSProvider string
	// KMSKeyURI is the URI of the KMS key wrapping the configured key secrets.
	// When empty, key secrets are read as plain hex.
	KMSKeyURI string

	// BatchConcurrency is the number of tokens processed in parallel by the batch command.
	BatchConcurrency int

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Token keys and pipeline
		TokenCurrentKey:           env.GetString("TOKEN_CURRENT_KEY", ""),
		TokenKeys:                 env.GetString("TOKEN_KEYS", ""),
		TokenAlgorithm:            env.GetString("TOKEN_ALGORITHM", string(tokenDomain.AESGCM)),
		TokenMaxDecompressedBytes: env.GetInt("TOKEN_MAX_DECOMPRESSED_BYTES", tokenDomain.DefaultMaxDecompressedSize),

		// KMS configuration
		KMSProvider: env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:   env.GetString("KMS_KEY_URI", ""),

		// Batch processing
		BatchConcurrency: env.GetInt("BATCH_CONCURRENCY", 4),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", false),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "securetoken"),
	}
}

// Validate checks the configuration values that do not depend on key material.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(
			&c.TokenAlgorithm,
			validation.Required,
			validation.In(string(tokenDomain.AESGCM), string(tokenDomain.ChaCha20)),
		),
		validation.Field(&c.TokenMaxDecompressedBytes, validation.Min(1)),
		validation.Field(&c.BatchConcurrency, validation.Min(1)),
		validation.Field(&c.MetricsNamespace, validation.When(c.MetricsEnabled, validation.Required)),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrMisconfigured, err.Error())
	}
	return nil
}

// Algorithm returns the configured AEAD algorithm.
func (c *Config) Algorithm() (tokenDomain.Algorithm, error) {
	return tokenDomain.ParseAlgorithm(c.TokenAlgorithm)
}

// CurrentKeyConfig decodes TOKEN_CURRENT_KEY.
func (c *Config) CurrentKeyConfig() (tokenDomain.KeyConfig, error) {
	if c.TokenCurrentKey == "" {
		return tokenDomain.KeyConfig{}, tokenDomain.ErrCurrentKeyNotSet
	}

	var cfg tokenDomain.KeyConfig
	if err := json.Unmarshal([]byte(c.TokenCurrentKey), &cfg); err != nil {
		return tokenDomain.KeyConfig{}, fmt.Errorf("%w: TOKEN_CURRENT_KEY: %v", tokenDomain.ErrInvalidKeyConfig, err)
	}
	return cfg, nil
}

// KeyConfigs decodes TOKEN_KEYS. An unset value yields an empty list.
func (c *Config) KeyConfigs() ([]tokenDomain.KeyConfig, error) {
	if c.TokenKeys == "" {
		return nil, nil
	}

	var cfgs []tokenDomain.KeyConfig
	if err := json.Unmarshal([]byte(c.TokenKeys), &cfgs); err != nil {
		return nil, fmt.Errorf("%w: TOKEN_KEYS: %v", tokenDomain.ErrInvalidKeyConfig, err)
	}
	return cfgs, nil
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
