package chat

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

type retryGenerator struct {
	next     Generator
	attempts uint64
	base     time.Duration
}

// WithRetry retries failed generations up to attempts more times with
// exponential backoff starting at base. attempts <= 0 returns next unchanged.
func WithRetry(next Generator, attempts int, base time.Duration) Generator {
	if attempts <= 0 {
		return next
	}
	return &retryGenerator{next: next, attempts: uint64(attempts), base: base}
}

func (g *retryGenerator) Generate(ctx context.Context, req Request) (string, error) {
	backoff := retry.WithMaxRetries(g.attempts, retry.NewExponential(g.base))

	var answer string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		answer, err = g.next.Generate(ctx, req)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}
