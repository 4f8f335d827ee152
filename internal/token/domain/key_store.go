package domain

import (
	"bytes"
	"fmt"
	"sort"
)

// KeyStore is an immutable set of keys plus one designated current key.
//
// The current key encrypts new tokens; every key in the lookup table can decrypt. The
// lookup table may or may not contain the current key: a store built with an empty key
// list still encrypts, but cannot decrypt its own tokens. Rotation means building a new
// KeyStore, so a store is safe to share between goroutines without locking.
type KeyStore struct {
	current *Key
	byID    map[string]*Key
}

// NewKeyStore builds a key store from the current key and the keys eligible for decryption.
//
// Keys are copied, so later changes to the arguments do not affect the store. Returns
// ErrInvalidKeyStore when the current key is missing, when any key has an empty id or
// secret, or when one id is given two different secrets.
func NewKeyStore(current *Key, keys []*Key) (*KeyStore, error) {
	if current == nil {
		return nil, fmt.Errorf("%w: current key is required", ErrInvalidKeyStore)
	}
	if err := checkKey(current); err != nil {
		return nil, err
	}

	ks := &KeyStore{
		current: current.clone(),
		byID:    make(map[string]*Key, len(keys)),
	}

	for _, key := range keys {
		if key == nil {
			return nil, fmt.Errorf("%w: nil key in key list", ErrInvalidKeyStore)
		}
		if err := checkKey(key); err != nil {
			return nil, err
		}
		if existing, ok := ks.byID[key.ID]; ok && !bytes.Equal(existing.Secret, key.Secret) {
			return nil, fmt.Errorf("%w: conflicting secrets for key %s", ErrInvalidKeyStore, key.ID)
		}
		ks.byID[key.ID] = key.clone()
	}

	if existing, ok := ks.byID[current.ID]; ok && !bytes.Equal(existing.Secret, current.Secret) {
		return nil, fmt.Errorf("%w: conflicting secrets for current key %s", ErrInvalidKeyStore, current.ID)
	}

	return ks, nil
}

// NewKeyStoreFromConfig decodes key configuration records and builds a key store.
func NewKeyStoreFromConfig(current KeyConfig, all []KeyConfig) (*KeyStore, error) {
	currentKey, err := current.ToKey()
	if err != nil {
		return nil, fmt.Errorf("current key: %w", err)
	}
	defer Zero(currentKey.Secret)

	keys := make([]*Key, 0, len(all))
	defer func() {
		for _, k := range keys {
			Zero(k.Secret)
		}
	}()
	for i := range all {
		key, err := all[i].ToKey()
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys = append(keys, key)
	}

	return NewKeyStore(currentKey, keys)
}

func checkKey(key *Key) error {
	if key.ID == "" {
		return fmt.Errorf("%w: key id is required", ErrInvalidKeyStore)
	}
	if len(key.Secret) == 0 {
		return fmt.Errorf("%w: key %s has an empty secret", ErrInvalidKeyStore, key.ID)
	}
	return nil
}

// Current returns the key used to encrypt new tokens.
func (ks *KeyStore) Current() *Key {
	return ks.current
}

// Lookup returns the decryption key with the given id.
// The returned key is shared with the store and must be treated as read-only.
func (ks *KeyStore) Lookup(id string) (*Key, bool) {
	key, ok := ks.byID[id]
	return key, ok
}

// Len returns the number of keys eligible for decryption.
func (ks *KeyStore) Len() int {
	return len(ks.byID)
}

// IDs returns the sorted ids of the keys eligible for decryption.
func (ks *KeyStore) IDs() []string {
	ids := make([]string, 0, len(ks.byID))
	for id := range ks.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
