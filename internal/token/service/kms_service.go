package service

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"gocloud.dev/secrets"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for the key URI.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (tokenDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// UnwrapKeyConfig decrypts a KMS-wrapped key entry, whose key field holds the base64 KMS
// ciphertext of the raw secret, into a plain entry with a hex secret.
func UnwrapKeyConfig(
	ctx context.Context,
	keeper tokenDomain.KMSKeeper,
	cfg tokenDomain.KeyConfig,
) (tokenDomain.KeyConfig, error) {
	if err := cfg.ValidateWrapped(); err != nil {
		return tokenDomain.KeyConfig{}, err
	}
	ciphertext, _ := base64.StdEncoding.DecodeString(cfg.Key)

	secret, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return tokenDomain.KeyConfig{}, fmt.Errorf("failed to decrypt key %s with KMS: %w", cfg.UUID, err)
	}
	defer tokenDomain.Zero(secret)

	return tokenDomain.KeyConfig{
		UUID:      cfg.UUID,
		Key:       hex.EncodeToString(secret),
		Timestamp: cfg.Timestamp,
	}, nil
}

// WrapKey encrypts a key secret with KMS and returns its configuration entry.
func WrapKey(
	ctx context.Context,
	keeper tokenDomain.KMSKeeper,
	key *tokenDomain.Key,
) (tokenDomain.KeyConfig, error) {
	ciphertext, err := keeper.Encrypt(ctx, key.Secret)
	if err != nil {
		return tokenDomain.KeyConfig{}, fmt.Errorf("failed to encrypt key %s with KMS: %w", key.ID, err)
	}

	cfg := tokenDomain.NewKeyConfig(key)
	cfg.Key = base64.StdEncoding.EncodeToString(ciphertext)
	return cfg, nil
}
