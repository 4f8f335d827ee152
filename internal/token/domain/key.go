package domain

import (
	"encoding/hex"
	"fmt"
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/securetoken/internal/validation"
)

// Key is a named symmetric secret.
//
// Fields:
//   - ID: Opaque identifier, UUID-shaped in practice, stamped on tokens as keyId
//   - Secret: Raw secret bytes; used directly for the MAC and as HKDF input for the cipher
//   - CreatedAt: Informational creation time from the key configuration
type Key struct {
	ID        string
	Secret    []byte
	CreatedAt time.Time
}

// clone returns a deep copy so a key store never aliases caller-owned secret bytes.
func (k *Key) clone() *Key {
	secret := make([]byte, len(k.Secret))
	copy(secret, k.Secret)
	return &Key{ID: k.ID, Secret: secret, CreatedAt: k.CreatedAt}
}

// Zero overwrites secret bytes in place. Callers zero derived keys and plaintext buffers
// once they are done with them.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// KeyConfig is the external key configuration record:
//
//	{"uuid": "<id>", "key": "<hex secret>", "timestamp": "<ISO-8601>"}
//
// When key secrets are wrapped by a KMS, Key holds the base64 KMS ciphertext instead and
// must be unwrapped before ToKey is called.
type KeyConfig struct {
	UUID      string `json:"uuid"`
	Key       string `json:"key"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Validate checks the entry holds a UUID id, a hex secret of at least MinSecretSize bytes
// and, when present, an RFC 3339 timestamp.
func (c *KeyConfig) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.UUID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.UUID,
		),
		validation.Field(&c.Key,
			validation.Required,
			customValidation.NotBlank,
			customValidation.HexBytes{MinBytes: MinSecretSize},
		),
		validation.Field(&c.Timestamp,
			customValidation.RFC3339,
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKeyConfig, err)
	}
	return nil
}

// ValidateWrapped checks a KMS-wrapped entry: a UUID id and a base64 ciphertext.
func (c *KeyConfig) ValidateWrapped() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.UUID,
			validation.Required,
			customValidation.UUID,
		),
		validation.Field(&c.Key,
			validation.Required,
			customValidation.NoWhitespace,
			customValidation.Base64,
		),
		validation.Field(&c.Timestamp,
			customValidation.RFC3339,
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKeyConfig, err)
	}
	return nil
}

// ToKey validates the entry and decodes it into a Key.
func (c *KeyConfig) ToKey() (*Key, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	secret, err := hex.DecodeString(c.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyConfig, err)
	}

	var createdAt time.Time
	if c.Timestamp != "" {
		// Already validated as RFC 3339.
		createdAt, _ = time.Parse(time.RFC3339Nano, c.Timestamp)
	}

	return &Key{ID: c.UUID, Secret: secret, CreatedAt: createdAt}, nil
}

// NewKeyConfig encodes a key back into its configuration record.
func NewKeyConfig(key *Key) KeyConfig {
	cfg := KeyConfig{
		UUID: key.ID,
		Key:  hex.EncodeToString(key.Secret),
	}
	if !key.CreatedAt.IsZero() {
		cfg.Timestamp = key.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return cfg
}
