package backend

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError carries the upstream status and body so callers can surface a
// specific message. Message is the upstream body's "message" field, or a
// generic fallback when the body is missing or not JSON.
type APIError struct {
	StatusCode int
	Body       []byte
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}

// newAPIError builds an APIError from a non-2xx response body.
func newAPIError(status int, body []byte) *APIError {
	msg := fmt.Sprintf("request failed with status %d", status)
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}
	return &APIError{StatusCode: status, Body: body, Message: msg}
}

// AsAPIError unwraps err into an *APIError when the failure came from an
// upstream HTTP response.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
