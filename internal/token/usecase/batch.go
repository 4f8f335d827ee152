package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	tokenDomain "github.com/allisson/securetoken/internal/token/domain"
)

// DecryptResult is the outcome of one token in a batch decryption.
type DecryptResult struct {
	Payload *tokenDomain.Payload
	Err     error
}

func normalizeConcurrency(concurrency int) int {
	if concurrency < 1 {
		return 1
	}
	return concurrency
}

// BatchEncrypt encrypts values with at most concurrency calls in flight. Tokens are
// returned in input order. The first failure cancels the remaining work and is returned.
func BatchEncrypt(
	ctx context.Context,
	uc TokenUseCase,
	values []any,
	concurrency int,
) ([]*tokenDomain.Token, error) {
	tokens := make([]*tokenDomain.Token, len(values))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(normalizeConcurrency(concurrency))

	for i := range values {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			token, err := uc.Encrypt(gctx, values[i])
			if err != nil {
				return err
			}
			tokens[i] = token
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// BatchDecrypt opens tokens with at most concurrency calls in flight. Rejected tokens are
// reported per item in DecryptResult.Err and do not stop the batch; the returned error is
// only set when ctx is done before every token was processed.
func BatchDecrypt(
	ctx context.Context,
	uc TokenUseCase,
	tokens []*tokenDomain.Token,
	concurrency int,
) ([]DecryptResult, error) {
	results := make([]DecryptResult, len(tokens))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(normalizeConcurrency(concurrency))

	for i := range tokens {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			payload, err := uc.Open(gctx, tokens[i])
			results[i] = DecryptResult{Payload: payload, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
