package api

import (
	"errors"
	"fmt"
)

// DefaultErrorMessage is reported when a failed response carries no message.
const DefaultErrorMessage = "Request failed"

var (
	// ErrNoBaseURL indicates the client was built without an API prefix.
	ErrNoBaseURL = errors.New("api base url is not configured")
)

// RequestError is a non-2xx API response. Message is the server-supplied
// message or DefaultErrorMessage.
type RequestError struct {
	Method   string
	Endpoint string
	Status   int
	Message  string
}

func (e *RequestError) Error() string {
	return e.Message
}

// Describe renders the failure with its request coordinates, for logs.
func (e *RequestError) Describe() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Endpoint, e.Status, e.Message)
}

// IsUnauthorized reports whether err is an authorization failure from the API,
// which is how an expired or tampered stored token surfaces.
func IsUnauthorized(err error) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	return reqErr.Status == 401 || reqErr.Status == 422
}
