package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

// envelopeCodec implements EnvelopeCodec with JSON and gzip.
type envelopeCodec struct {
	maxDecompressedSize int64
}

// NewEnvelopeCodec creates an envelope codec. Payloads inflating past maxDecompressedSize
// bytes fail to decompress; a non-positive value selects DefaultMaxDecompressedSize.
func NewEnvelopeCodec(maxDecompressedSize int64) EnvelopeCodec {
	if maxDecompressedSize <= 0 {
		maxDecompressedSize = tokenDomain.DefaultMaxDecompressedSize
	}
	return &envelopeCodec{maxDecompressedSize: maxDecompressedSize}
}

// Wrap serializes value to JSON, gzips it and wraps it in an envelope stamped issuedAt.
// A value encoding/json cannot represent is a caller error, not a token error.
func (c *envelopeCodec) Wrap(value any, issuedAt time.Time) ([]byte, error) {
	serialized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize value: %w", err)
	}

	payload, err := c.Compress(serialized)
	if err != nil {
		return nil, err
	}

	envelope, err := json.Marshal(tokenDomain.Envelope{
		IssuedAt: issuedAt.UTC(),
		Payload:  payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize envelope: %w", err)
	}
	return envelope, nil
}

// Unwrap parses envelope plaintext. Both members must be present.
func (c *envelopeCodec) Unwrap(plaintext []byte) (*tokenDomain.Envelope, error) {
	var envelope tokenDomain.Envelope
	if err := json.Unmarshal(plaintext, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", tokenDomain.ErrMalformedEnvelope, err)
	}
	if envelope.IssuedAt.IsZero() {
		return nil, fmt.Errorf("%w: missing issuedAt", tokenDomain.ErrMalformedEnvelope)
	}
	if len(envelope.Payload) == 0 {
		return nil, fmt.Errorf("%w: missing payload", tokenDomain.ErrMalformedEnvelope)
	}
	return &envelope, nil
}

// Compress gzips data at the default compression level.
func (c *envelopeCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress gunzips payload, failing on corrupt streams and on output larger than the
// configured limit.
func (c *envelopeCodec) Decompress(payload []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(io.LimitReader(r, c.maxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress payload: %w", err)
	}
	if int64(len(data)) > c.maxDecompressedSize {
		return nil, fmt.Errorf("decompressed payload exceeds %d bytes", c.maxDecompressedSize)
	}
	return data, nil
}
