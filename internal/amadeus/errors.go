package amadeus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

const maxErrorBody = 200

// AuthError reports a failed client-credentials exchange.
type AuthError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("amadeus oauth failed: %v", e.Err)
	}
	return fmt.Sprintf("amadeus oauth failed: %d %s", e.StatusCode, e.Body)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// RequestError reports a failed search call: transport failure, non-2xx
// status, or a body that is not the expected JSON document.
type RequestError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("amadeus %s failed: %v", e.Op, e.Err)
	case e.Err != nil && e.Body != "":
		return fmt.Sprintf("amadeus %s: invalid JSON: %s", e.Op, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("amadeus %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("amadeus %s failed: %d %s", e.Op, e.StatusCode, e.Body)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Temporary reports whether repeating the call may succeed.
func (e *RequestError) Temporary() bool {
	if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
		return false
	}
	if e.StatusCode == 0 {
		return e.Err != nil
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

func truncate(b []byte) string {
	if len(b) <= maxErrorBody {
		return string(b)
	}
	return string(b[:maxErrorBody])
}
