// Package token groups the secure token pipeline.
//
// A token carries any JSON-representable value, compressed, encrypted under the current
// key of a KeyStore and authenticated with an HMAC:
//
//	value → JSON → gzip → envelope{issuedAt, payload} → AEAD → HMAC → Token
//
// Decryption runs ordered validation gates and halts at the first failure:
//
//	0 structure       ErrInvalidToken
//	1 key lookup      ErrUnknownKeyID
//	2 version         ErrUnknownVersion
//	3 MAC             ErrInvalidHash
//	4 decrypt         ErrInvalidHash
//	5 gunzip          ErrCouldNotDecompress
//	6 JSON            ErrUnableToDecodeJSON
//
// Subpackages:
//   - domain: keys, the key store, the token record and the error taxonomy
//   - service: ciphers, key derivation, the envelope codec and KMS helpers
//   - usecase: the Tokenizer, its metrics decorator and batch helpers
package token
