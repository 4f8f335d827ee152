package domain

import (
	"encoding/json"
	"time"
)

// Envelope is the plaintext that gets encrypted into a token's data field. It never
// leaves the encrypt/decrypt pipeline.
//
// Fields:
//   - IssuedAt: Encryption time; serialized as RFC 3339 and never checked for freshness
//   - Payload: gzip-compressed JSON of the tokenized value; base64 inside the envelope JSON
type Envelope struct {
	IssuedAt time.Time `json:"issuedAt"`
	Payload  []byte    `json:"payload"`
}

// Payload is the result of opening a token: the original JSON value and the time the
// token was issued. Callers wanting freshness rules apply them to IssuedAt themselves.
type Payload struct {
	IssuedAt time.Time
	Value    json.RawMessage
}
