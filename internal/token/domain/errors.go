package domain

import (
	"github.com/allisson/securetoken/internal/errors"
)

// Decrypt error taxonomy.
//
// Every token rejected by the decrypt pipeline maps to exactly one of these errors. The
// pipeline checks them in declaration order and stops at the first failure.
var (
	// ErrInvalidToken indicates the token is structurally malformed: not an object, or a
	// required field is absent, empty or not a string.
	ErrInvalidToken = errors.Wrap(errors.ErrInvalidInput, "invalid token")

	// ErrUnknownKeyID indicates the token's key id is not present in the key store.
	ErrUnknownKeyID = errors.Wrap(errors.ErrNotFound, "unknown key id")

	// ErrUnknownVersion indicates the token's version differs from ProtocolVersion.
	ErrUnknownVersion = errors.Wrap(errors.ErrInvalidInput, "unknown version")

	// ErrInvalidHash indicates the MAC did not match, data or hash were not valid base64,
	// or the authenticated ciphertext could not be opened into an envelope.
	ErrInvalidHash = errors.Wrap(errors.ErrUnauthorized, "invalid hash")

	// ErrCouldNotDecompress indicates the envelope payload is not a valid gzip stream.
	ErrCouldNotDecompress = errors.Wrap(errors.ErrInvalidInput, "could not decompress token")

	// ErrUnableToDecodeJSON indicates the decompressed payload is not valid JSON.
	ErrUnableToDecodeJSON = errors.Wrap(errors.ErrInvalidInput, "unable to decode JSON after decompressing")
)

// Key and configuration errors. These are raised while building a key store, never by the
// decrypt pipeline.
var (
	// ErrInvalidKeyStore indicates the key store could not be built from the given keys.
	ErrInvalidKeyStore = errors.Wrap(errors.ErrMisconfigured, "invalid key store")

	// ErrInvalidKeyConfig indicates a key configuration entry failed validation.
	ErrInvalidKeyConfig = errors.Wrap(errors.ErrMisconfigured, "invalid key config")

	// ErrCurrentKeyNotSet indicates TOKEN_CURRENT_KEY is missing.
	ErrCurrentKeyNotSet = errors.Wrap(errors.ErrMisconfigured, "TOKEN_CURRENT_KEY not set")

	// ErrUnsupportedAlgorithm indicates the configured AEAD algorithm is unknown.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a derived cipher key is not 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates an AEAD open failed. The cause is never disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrMalformedEnvelope indicates decrypted bytes are not an envelope.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed envelope")
)

// ErrorKind is the closed set of decrypt outcomes. Switch on KindOf(err) to handle every
// failure explicitly.
type ErrorKind string

const (
	KindNone               ErrorKind = ""
	KindInvalidToken       ErrorKind = "invalid_token"
	KindUnknownKeyID       ErrorKind = "unknown_key_id"
	KindUnknownVersion     ErrorKind = "unknown_version"
	KindInvalidHash        ErrorKind = "invalid_hash"
	KindCouldNotDecompress ErrorKind = "could_not_decompress"
	KindUnableToDecodeJSON ErrorKind = "unable_to_decode_json"
	// KindUnknown is reported for errors outside the taxonomy (encrypt-side failures,
	// context cancellation).
	KindUnknown ErrorKind = "unknown"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidToken, KindInvalidToken},
	{ErrUnknownKeyID, KindUnknownKeyID},
	{ErrUnknownVersion, KindUnknownVersion},
	{ErrInvalidHash, KindInvalidHash},
	{ErrCouldNotDecompress, KindCouldNotDecompress},
	{ErrUnableToDecodeJSON, KindUnableToDecodeJSON},
}

// KindOf classifies err into the decrypt taxonomy.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	if k == KindNone {
		return "none"
	}
	return string(k)
}
