package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Provider failures. Each type says through Temporary whether WithRetry
// may send the same request again.

// ErrRateLimit is a 429 from the provider.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider throttled the request, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("provider throttled the request: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error   { return e.Err }
func (e *ErrRateLimit) Temporary() bool { return true }

// ErrInvalidResponse means the reply was not JSON or did not match the
// prediction schema. Content keeps the raw reply for the request log.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("model reply is not a usable prediction: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error   { return e.Err }
func (e *ErrInvalidResponse) Temporary() bool { return true }

// ErrProviderUnavailable covers 5xx responses and transport failures.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "model provider unreachable"
	}
	return fmt.Sprintf("model provider unreachable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error   { return e.Err }
func (e *ErrProviderUnavailable) Temporary() bool { return true }

// ErrMaxTokensExceeded means generation stopped at the token limit before
// the JSON object was closed.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "model reply cut off at the token limit"
}

func (e *ErrMaxTokensExceeded) Temporary() bool { return false }

// ErrTimeout is returned by WithTimeout when the whole call, retries
// included, ran past its budget. It unwraps to context.DeadlineExceeded.
type ErrTimeout struct {
	Model   string
	Purpose string
	After   time.Duration
	Err     error
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("%s request to %s timed out after %s", e.Purpose, e.Model, e.After)
}

func (e *ErrTimeout) Unwrap() error   { return e.Err }
func (e *ErrTimeout) Temporary() bool { return false }

// temporary reports the Temporary verdict of the first typed error in
// err's chain. Untyped errors count as temporary.
func temporary(err error) bool {
	var t interface{ Temporary() bool }
	if errors.As(err, &t) {
		return t.Temporary()
	}
	return true
}
