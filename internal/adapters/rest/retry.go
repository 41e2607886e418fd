package rest

import (
	"context"
	"errors"
	"time"

	"field-visit-service/internal/ports"
)

// execute runs a call through the retry coordinator. Retry is bounded
// exponential backoff over the retryable failure classes; everything
// else propagates on the first failure.
func (c *Client) execute(ctx context.Context, spec callSpec, retry bool) (*Envelope, error) {
	if !retry {
		return c.doOnce(ctx, spec)
	}

	backoff := baseRetryDelay

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, classifyTransportErr(ctx, err)
		}

		env, err := c.doOnce(ctx, spec)
		if err == nil {
			return env, nil
		}
		lastErr = err

		var reqErr *ports.RequestError
		if !errors.As(err, &reqErr) || !reqErr.Retryable() || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, classifyTransportErr(ctx, ctx.Err())
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
