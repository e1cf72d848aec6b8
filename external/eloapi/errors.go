package eloapi

import "fmt"

const maxErrorBodyBytes = 512

// TransportError reports a failed call: either no response (StatusCode 0)
// or a non-2xx status. Calls are never retried.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Message    string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("elo api %s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("elo api %s %s: status=%d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("elo api %s %s: status=%d body=%s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the failure says something about the server's
// health rather than the request.
func (e *TransportError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500 || e.StatusCode == 429
}

func truncate(raw []byte) string {
	if len(raw) <= maxErrorBodyBytes {
		return string(raw)
	}
	return string(raw[:maxErrorBodyBytes]) + "..."
}
