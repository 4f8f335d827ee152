package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/allisson/securetoken/internal/metrics"
	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
	tokenUseCase "github.com/allisson/securetoken/internal/token/usecase"
)

const (
	// BatchModeEncrypt reads one JSON value per line and writes one token per line.
	BatchModeEncrypt = "encrypt"
	// BatchModeDecrypt reads one token per line and writes one value per line.
	BatchModeDecrypt = "decrypt"

	maxBatchLineSize = 16 << 20
)

// batchError is the output line for a rejected token.
type batchError struct {
	Error string `json:"error"`
}

// readLines returns the non-blank input lines.
func readLines(streams IOTuple) ([][]byte, error) {
	scanner := bufio.NewScanner(streams.Reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxBatchLineSize)

	var lines [][]byte
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		lines = append(lines, append([]byte(nil), line...))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

// RunBatch processes JSON Lines input. Blank lines are skipped; every other line produces
// exactly one output line, in input order.
//
// In encrypt mode a line that is not valid JSON aborts the batch. In decrypt mode rejected
// tokens do not abort it: their output line is {"error":"<kind>"}.
func RunBatch(
	ctx context.Context,
	uc tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	streams IOTuple,
	mode string,
	concurrency int,
) error {
	if mode != BatchModeEncrypt && mode != BatchModeDecrypt {
		return fmt.Errorf("invalid batch mode: %s (valid options: encrypt, decrypt)", mode)
	}

	lines, err := readLines(streams)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(streams.Writer)
	if mode == BatchModeEncrypt {
		err = batchEncrypt(ctx, uc, logger, writer, lines, concurrency)
	} else {
		err = batchDecrypt(ctx, uc, logger, writer, lines, concurrency)
	}
	if err != nil {
		return err
	}

	return writer.Flush()
}

func batchEncrypt(
	ctx context.Context,
	uc tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer *bufio.Writer,
	lines [][]byte,
	concurrency int,
) error {
	values := make([]any, len(lines))
	for i, line := range lines {
		if !json.Valid(line) {
			return fmt.Errorf("line %d: input is not valid JSON", i+1)
		}
		values[i] = json.RawMessage(line)
	}

	tokens, err := tokenUseCase.BatchEncrypt(ctx, uc, values, concurrency)
	if err != nil {
		return fmt.Errorf("failed to encrypt batch: %w", err)
	}

	for _, token := range tokens {
		_, _ = fmt.Fprintln(writer, token.String())
	}

	logger.Info("batch completed", slog.String("mode", BatchModeEncrypt), slog.Int("items", len(tokens)))
	return nil
}

func batchDecrypt(
	ctx context.Context,
	uc tokenUseCase.TokenUseCase,
	logger *slog.Logger,
	writer *bufio.Writer,
	lines [][]byte,
	concurrency int,
) error {
	tokens := make([]*tokenDomain.Token, len(lines))
	for i, line := range lines {
		// unparseable lines stay nil and are rejected as invalid tokens
		if token, err := tokenDomain.ParseToken(line); err == nil {
			tokens[i] = token
		}
	}

	results, err := tokenUseCase.BatchDecrypt(ctx, uc, tokens, concurrency)
	if err != nil {
		return fmt.Errorf("failed to decrypt batch: %w", err)
	}

	rejected := map[string]int{}
	for _, result := range results {
		if result.Err != nil {
			kind := tokenDomain.KindOf(result.Err).String()
			rejected[kind]++

			line, err := json.Marshal(batchError{Error: kind})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(writer, string(line))
			continue
		}
		_, _ = fmt.Fprintln(writer, string(result.Payload.Value))
	}

	attrs := []any{slog.String("mode", BatchModeDecrypt), slog.Int("items", len(results))}
	for kind, count := range rejected {
		attrs = append(attrs, slog.Int("rejected_"+kind, count))
	}
	logger.Info("batch completed", attrs...)
	return nil
}

// WriteMetricsFile writes a Prometheus text snapshot of provider to path.
func WriteMetricsFile(provider *metrics.Provider, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}

	if err := provider.WriteText(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
