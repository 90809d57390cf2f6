package exception

import (
	"errors"
	"fmt"
)

// RemoteError is the structured rejection returned by the venue.
// It is propagated verbatim and never retried locally.
type RemoteError struct {
	Code    int64
	Message string
	TraceID string
}

func (e *RemoteError) Error() string {
	if e.TraceID == "" {
		return fmt.Sprintf("remote error, code: %d, message: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("remote error, code: %d, message: %s, trace_id: %s", e.Code, e.Message, e.TraceID)
}

// ParseError reports a structurally required field that failed to decode.
// The whole record is rejected when this happens.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s: invalid value %q", e.Field, e.Value)
	}
	return fmt.Sprintf("parse %s: invalid value %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError builds a ParseError.
func NewParseError(field, value string, err error) error {
	return &ParseError{Field: field, Value: value, Err: err}
}

// IsClosed reports whether err means the client or its transport is gone.
// A connection dropped mid-request or not yet re-established counts too.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClientClosed) ||
		errors.Is(err, ErrConnectionClose) ||
		errors.Is(err, ErrNotConnected)
}

// IsRemote reports whether err carries a venue rejection and returns it.
func IsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsParse reports whether err is a local decode failure.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
