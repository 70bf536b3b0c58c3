package llm

import (
	"context"
	"errors"
	"time"
)

// RetryProvider retries calls that failed with ErrRateLimit. Any other
// failure, including a cancelled or expired context, ends the call.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p. MaxAttempts below one is treated as one.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempt := 0
	for {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var rl *ErrRateLimit
		if !errors.As(err, &rl) {
			return nil, err
		}
		attempt++
		if attempt >= r.config.MaxAttempts {
			return nil, err
		}

		timer := time.NewTimer(r.config.delay(attempt-1, rl.RetryAfter))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// delay is the wait before retry number n+1: InitialWait grown by
// Multiplier per previous retry. A provider hint can lengthen the wait but
// never shorten it. The result never exceeds MaxWait.
func (c RetryConfig) delay(n int, hint time.Duration) time.Duration {
	d := c.InitialWait
	for range n {
		d = time.Duration(float64(d) * c.Multiplier)
		if c.MaxWait > 0 && d >= c.MaxWait {
			break
		}
	}
	d = max(d, hint)
	if c.MaxWait > 0 && d > c.MaxWait {
		d = c.MaxWait
	}
	return max(d, 0)
}
