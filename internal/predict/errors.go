package predict

import (
	"fmt"
	"net/http"
)

// ErrUnavailable is a transport failure: DNS, connection, timeout.
type ErrUnavailable struct {
	Endpoint string
	Err      error
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("prediction service %s unavailable: %v", e.Endpoint, e.Err)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrStatus is a non-2xx reply.
type ErrStatus struct {
	StatusCode int
	Body       string // truncated
}

func (e *ErrStatus) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("prediction service returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("prediction service returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Temporary reports whether the status is worth retrying.
func (e *ErrStatus) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ErrInvalidResponse is a 2xx reply that is not JSON or lacks a string
// prediction.
type ErrInvalidResponse struct {
	Body string
	Err  error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid prediction response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }
