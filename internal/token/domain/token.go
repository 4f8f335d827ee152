package domain

import (
	"encoding/json"
	"fmt"
)

// Token is the opaque record produced by encryption and consumed by decryption.
//
// Wire format:
//
//	{"keyId": "<id>", "version": "0.1.0", "data": "<base64 ciphertext>", "hash": "<base64 MAC>"}
//
// Hash authenticates the decoded bytes of Data, never the plaintext. A token is an
// immutable value once minted; decryption never modifies it.
type Token struct {
	KeyID   string `json:"keyId"`
	Version string `json:"version"`
	Data    string `json:"data"`
	Hash    string `json:"hash"`
}

// tokenFields lists the required wire fields in the order they are checked.
var tokenFields = []string{"keyId", "version", "data", "hash"}

// Validate performs the structural check on a typed token. A nil token or any empty
// field is reported as ErrInvalidToken, since a typed token cannot distinguish an absent
// field from an empty one.
func (t *Token) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: token is missing", ErrInvalidToken)
	}

	values := []string{t.KeyID, t.Version, t.Data, t.Hash}
	for i, v := range values {
		if v == "" {
			return fmt.Errorf("%w: missing %s", ErrInvalidToken, tokenFields[i])
		}
	}
	return nil
}

// ParseToken decodes untrusted JSON into a Token.
//
// The input must be a JSON object whose keyId, version, data and hash members are all
// present, strings, and non-empty. Anything else (including null, arrays, bare strings
// and fields holding arrays or objects) is reported as ErrInvalidToken. Unknown members
// are ignored.
func ParseToken(raw []byte) (*Token, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidToken)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: token is missing", ErrInvalidToken)
	}

	values := make([]string, len(tokenFields))
	for i, name := range tokenFields {
		v, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidToken, name)
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidToken, name)
		}
		values[i] = s
	}

	token := &Token{
		KeyID:   values[0],
		Version: values[1],
		Data:    values[2],
		Hash:    values[3],
	}
	if err := token.Validate(); err != nil {
		return nil, err
	}
	return token, nil
}

// String returns the JSON wire form of the token.
func (t Token) String() string {
	b, _ := json.Marshal(t)
	return string(b)
}
