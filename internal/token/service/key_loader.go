package service

import (
	"context"
	"fmt"
	"log/slog"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

// LoadKeyStore builds the key store from configuration entries. When keyURI is set, every
// entry holds a KMS-wrapped secret and is unwrapped through kmsService first; otherwise
// entries carry plain hex secrets. Fails fast on the first bad entry.
func LoadKeyStore(
	ctx context.Context,
	kmsService KMSService,
	keyURI string,
	current tokenDomain.KeyConfig,
	all []tokenDomain.KeyConfig,
	logger *slog.Logger,
) (*tokenDomain.KeyStore, error) {
	if keyURI != "" {
		keeper, err := kmsService.OpenKeeper(ctx, keyURI)
		if err != nil {
			return nil, err
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()

		current, err = UnwrapKeyConfig(ctx, keeper, current)
		if err != nil {
			return nil, fmt.Errorf("current key: %w", err)
		}

		unwrapped := make([]tokenDomain.KeyConfig, 0, len(all))
		for i := range all {
			cfg, err := UnwrapKeyConfig(ctx, keeper, all[i])
			if err != nil {
				return nil, fmt.Errorf("key %d: %w", i, err)
			}
			unwrapped = append(unwrapped, cfg)
		}
		all = unwrapped
	}

	keyStore, err := tokenDomain.NewKeyStoreFromConfig(current, all)
	if err != nil {
		return nil, err
	}

	logger.Info("key store loaded",
		slog.String("current_key_id", keyStore.Current().ID),
		slog.Int("decrypt_keys", keyStore.Len()),
		slog.Bool("kms", keyURI != ""),
	)
	return keyStore, nil
}
