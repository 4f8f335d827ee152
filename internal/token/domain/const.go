// Package domain defines the token domain model: keys, the key store, the token wire
// record, the internal envelope and the closed decrypt error taxonomy.
package domain

// ProtocolVersion is the wire-format revision stamped on every token. Decryption only
// accepts tokens carrying exactly this string.
const ProtocolVersion = "0.1.0"

// Algorithm represents the AEAD algorithm the cipher engine seals envelopes with.
//
// The algorithm is not recorded on the wire, so every process sharing a key store must be
// configured with the same value.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. Preferred where AES hardware support is missing.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// String returns the string representation of the algorithm.
func (a Algorithm) String() string {
	return string(a)
}

// ParseAlgorithm converts a string to an Algorithm.
// Returns ErrUnsupportedAlgorithm if the value names no supported algorithm.
func ParseAlgorithm(alg string) (Algorithm, error) {
	switch Algorithm(alg) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

const (
	// MinSecretSize is the minimum accepted key secret length in bytes.
	MinSecretSize = 16

	// GeneratedSecretSize is the secret length used when generating new keys.
	GeneratedSecretSize = 32

	// DefaultMaxDecompressedSize caps how many bytes a token payload may inflate to (8 MiB).
	DefaultMaxDecompressedSize = 8 << 20
)
