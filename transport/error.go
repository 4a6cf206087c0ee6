package transport

import "fmt"

// DeliveryError is the terminal failure of a Report call. It preserves
// whether a response was received (StatusCode > 0) or the request never
// reached the server (Err set, StatusCode 0).
type DeliveryError struct {
	// HTTP status of the last response, 0 when no response was received
	StatusCode int
	// Body of the last response, truncated, empty when no response
	Body string
	// Number of attempts performed before giving up
	Attempts int
	// Last network-level error, nil when a response was received
	Err error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("report rejected with status %d after %d attempt(s): %s", e.StatusCode, e.Attempts, e.Body)
	}
	return fmt.Sprintf("report failed without a response after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure class is eligible for retry:
// no response at all, or a server-side (5xx) status. Client errors (4xx)
// are terminal.
func (e *DeliveryError) Retryable() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode >= 500 && e.StatusCode < 600
}
