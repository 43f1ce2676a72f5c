package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a response that arrived with a non-2xx status. Body is kept
// raw because the backend's error shape differs between endpoints.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message())
}

// Is makes 401 and 403 responses match ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Message is the human-readable message of the response, falling back to
// the status text when the body is empty.
func (e *APIError) Message() string {
	if msg := ExtractMessage(e.Body); msg != "" {
		return msg
	}
	return http.StatusText(e.StatusCode)
}

// FieldErrors returns the `details` object of the response, if any.
func (e *APIError) FieldErrors() (map[string]string, bool) {
	return FieldErrors(e.Body)
}

var messagePaths = []string{"details.error", "details.message", "error", "message"}

// ExtractMessage probes body for a message in the order details.error,
// details.message, error, message and otherwise returns the whole body.
//
// The chain exists because the backend has no single error contract. It
// should be collapsed to one path once the backend settles on a shape.
func ExtractMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, p := range messagePaths {
			if r := gjson.GetBytes(body, p); r.Exists() && r.Type != gjson.Null {
				return r.String()
			}
		}
	}
	return strings.TrimSpace(string(body))
}

// FieldErrors reads a `details` object of field/message pairs. It reports
// false when body has no such object.
func FieldErrors(body []byte) (map[string]string, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}
	details := gjson.GetBytes(body, "details")
	if !details.IsObject() {
		return nil, false
	}

	out := make(map[string]string)
	details.ForEach(func(k, v gjson.Result) bool {
		out[k.String()] = v.String()
		return true
	})
	return out, true
}
