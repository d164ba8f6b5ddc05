package orderapi

import "fmt"

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// TransportError means no response was received at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means a 2xx response whose body is not the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "malformed response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
