package client

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrNoSession is returned when a call is attempted after the session
// resolved as unauthenticated.
var ErrNoSession = errors.New("no active session")

// ErrServerUnreachable marks transport-level failures (connection refused,
// DNS, circuit open). Distinct from HTTP-level errors: errors.Is against
// this sentinel separates "the server said no" from "no server answered".
var ErrServerUnreachable = errors.New("Cannot reach the server. Please check your connection and try again.")

// APIError is an HTTP-level error response from the API. Message is the
// user-facing string; Detail carries whatever the server said.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	return e.Message
}

// Fixed user-facing strings per status. The 401 string applies regardless
// of the response body.
var statusMessages = map[int]string{
	http.StatusUnauthorized:        "Authentication failed. Please log in again.",
	http.StatusForbidden:           "You do not have permission to perform this action.",
	http.StatusNotFound:            "The requested resource was not found.",
	http.StatusInternalServerError: "Something went wrong on the server. Please try again later.",
	http.StatusGatewayTimeout:      "The server took too long to respond. Please try again.",
}

// newAPIError builds an APIError from a non-2xx response body. The detail
// is extracted best-effort: JSON error.message, error, or message fields,
// then the raw body, then the status text.
func newAPIError(statusCode int, body []byte) *APIError {
	detail := extractMessage(body)
	if detail == "" {
		detail = http.StatusText(statusCode)
	}

	message, ok := statusMessages[statusCode]
	if !ok {
		message = detail
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Detail:     detail,
	}
}

func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return string(body)
	}

	if len(envelope.Error) > 0 {
		var detail struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &detail); err == nil && detail.Message != "" {
			return detail.Message
		}
		var flat string
		if err := json.Unmarshal(envelope.Error, &flat); err == nil && flat != "" {
			return flat
		}
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return string(body)
}
