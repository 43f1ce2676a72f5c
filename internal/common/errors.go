package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries field-keyed, user-correctable messages. It is
// produced both by local form checks and from the backend's `details`
// payload, which is copied verbatim.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError from field/message pairs.
// Pairs with an odd trailing element are ignored.
func NewValidationError(kv ...string) *ValidationError {
	fields := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}
	return &ValidationError{Fields: fields}
}

// Messages returns the messages ordered by field name so that rendering is
// stable across runs.
func (e *ValidationError) Messages() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.Fields[k])
	}
	return out
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Messages(), "; ")
}

// TransportError is a network or decoding failure with an opaque message.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthorityError reports a failed session check. Stores log it and switch
// to the unauthenticated state; it is never rendered as a banner.
type AuthorityError struct {
	Err error
}

func (e *AuthorityError) Error() string {
	return fmt.Sprintf("session check failed: %v", e.Err)
}

func (e *AuthorityError) Unwrap() error { return e.Err }

// PartialDataError is a response that arrived intact but with a non-2xx
// status. Message is extracted from the body with client.ExtractMessage.
type PartialDataError struct {
	StatusCode int
	Message    string
}

func (e *PartialDataError) Error() string {
	return e.Message
}

// Messages flattens any error of the taxonomy into the list shown next to
// the form that triggered it.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Messages()
	}
	return []string{err.Error()}
}
