package assistant

import (
	"errors"
	"fmt"
)

// Failure kinds of a backend call. All of them degrade to the same offline
// message at the ChatClient layer.
var (
	ErrConnectivity      = errors.New("backend unreachable")
	ErrStatus            = errors.New("backend returned non-success status")
	ErrMalformedResponse = errors.New("malformed backend response")
)

// RequestError describes a failed backend call.
// errors.Is matches both Kind and the underlying cause.
type RequestError struct {
	Endpoint   Endpoint
	StatusCode int
	Kind       error
	Err        error
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Endpoint, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the failure kind of err, or nil if err is not a backend failure.
func KindOf(err error) error {
	for _, kind := range []error{ErrConnectivity, ErrStatus, ErrMalformedResponse} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
