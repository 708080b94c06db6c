package domain

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrForbidden          = errors.New("forbidden")
	ErrNetworkOrUnknown   = errors.New("network or unknown error")

	ErrSecretNotFound = errors.New("secret not found")
)

// APIError is a classified backend failure. Kind is one of the sentinel errors above.
type APIError struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ClassifyStatus maps an HTTP-like status code to an error kind.
func ClassifyStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrInvalidRequest
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrNetworkOrUnknown
	}
}

func NewAPIError(status int, message string) *APIError {
	return &APIError{Kind: ClassifyStatus(status), Status: status, Message: strings.TrimSpace(message)}
}

var fallbackMessages = []struct {
	kind    error
	message string
}{
	{ErrSessionExpired, "Your session has expired. Please log in again."},
	{ErrUnauthenticated, "You need to log in first."},
	{ErrInvalidCredentials, "Invalid email or password."},
	{ErrRateLimited, "Too many attempts. Please wait a moment and try again."},
	{ErrNotFound, "The requested resource was not found."},
	{ErrConflict, "The resource already exists."},
	{ErrInvalidRequest, "The request was rejected. Please check the submitted values."},
	{ErrForbidden, "You are not allowed to perform this action."},
}

const genericFailureMessage = "Something went wrong. Please try again."

// UserMessage returns a non-empty message for err, preferring the backend supplied one.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" && !errors.Is(err, ErrSessionExpired) && !errors.Is(err, ErrRateLimited) {
		return apiErr.Message
	}

	for _, fallback := range fallbackMessages {
		if errors.Is(err, fallback.kind) {
			return fallback.message
		}
	}

	return genericFailureMessage
}
