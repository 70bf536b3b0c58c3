package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrRateLimit indicates the provider rejected the call for rate or quota
// reasons (HTTP 429). It is the only error the retry decorator retries.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the model returned no usable text or JSON
// that does not conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable or
// was never initialized.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model provider unavailable: %v", e.Err)
	}
	return "model provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "model response truncated: max tokens exceeded"
}

// IsRateLimit reports whether err is or wraps an *ErrRateLimit.
func IsRateLimit(err error) bool {
	var rl *ErrRateLimit
	return errors.As(err, &rl)
}

// classifyStatus maps an HTTP failure to the error types above. A
// Retry-After header given in seconds is carried on ErrRateLimit.
func classifyStatus(status int, header http.Header, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		rl := &ErrRateLimit{Err: err}
		if secs, perr := strconv.Atoi(header.Get("Retry-After")); perr == nil && secs > 0 {
			rl.RetryAfter = time.Duration(secs) * time.Second
		}
		return rl
	case status >= 500:
		return &ErrProviderUnavailable{Err: err}
	}
	return classifyUntyped(err)
}

// classifyUntyped maps an SDK error that carried no usable status code.
// Quota exhaustion is frequently reported only in the message text.
func classifyUntyped(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
