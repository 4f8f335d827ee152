package metrics

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine matches one exposition line by name, a label pattern and a value.
// The exporter adds otel_scope_* labels, hence the regex.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	assert.Regexp(t, name+`\{[^}]*`+labels+`[^}]*\} `+value, output)
}

func newTestBusinessMetrics(t *testing.T, namespace string) (*Provider, BusinessMetrics) {
	t.Helper()
	provider, err := NewProvider(namespace)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	bm, err := NewBusinessMetrics(provider.MeterProvider(), namespace)
	require.NoError(t, err)
	return provider, bm
}

func TestBusinessMetrics(t *testing.T) {
	ctx := context.Background()
	provider, bm := newTestBusinessMetrics(t, "securetoken")

	records := []struct {
		operation string
		status    string
		duration  time.Duration
	}{
		{"token_encrypt", "success", 50 * time.Millisecond},
		{"token_encrypt", "success", 60 * time.Millisecond},
		{"token_encrypt", "error", 100 * time.Millisecond},
		{"token_decrypt", "success", 10 * time.Millisecond},
		{"token_decrypt", "invalid_hash", 20 * time.Millisecond},
		{"token_decrypt", "invalid_hash", 30 * time.Millisecond},
		{"token_decrypt", "unknown_key_id", 5 * time.Millisecond},
	}
	for _, r := range records {
		bm.RecordOperation(ctx, "token", r.operation, r.status)
		bm.RecordDuration(ctx, "token", r.operation, r.duration, r.status)
	}

	var buf bytes.Buffer
	require.NoError(t, provider.WriteText(&buf))
	output := buf.String()

	tests := []struct {
		operation string
		status    string
		count     string
	}{
		{"token_encrypt", "success", "2"},
		{"token_encrypt", "error", "1"},
		{"token_decrypt", "success", "1"},
		{"token_decrypt", "invalid_hash", "2"},
		{"token_decrypt", "unknown_key_id", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.operation+"_"+tt.status, func(t *testing.T) {
			labels := `domain="token".*operation="` + tt.operation + `".*status="` + tt.status + `"`
			assertMetricLine(t, output, "securetoken_operations_total", labels, tt.count)
			assertMetricLine(t, output, "securetoken_operation_duration_seconds_count", labels, tt.count)
		})
	}
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, noOp)

	assert.NotPanics(t, func() {
		noOp.RecordOperation(context.Background(), "token", "token_decrypt", "invalid_hash")
		noOp.RecordDuration(context.Background(), "token", "token_decrypt", time.Millisecond, "invalid_hash")
	})
}
