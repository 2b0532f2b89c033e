package weather

import (
	"errors"
	"fmt"
)

// ErrorKind tags where a failure originated.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindProvider
	KindGeolocation
)

func (k ErrorKind) String() string {
	switch k {
	case KindProvider:
		return "provider"
	case KindGeolocation:
		return "geolocation"
	default:
		return "generic"
	}
}

// Geolocation error codes.
const (
	CodeUnsupported      = 0
	CodePermissionDenied = 1
	CodeUnavailable      = 2
	CodeTimeout          = 3
)

// Error is the single error type surfaced by the provider client and the
// geolocation adapter. Status is set only for provider errors that received
// an HTTP response; Code only means something for geolocation errors.
type Error struct {
	Kind    ErrorKind
	Status  *int
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HasStatus reports whether the upstream answered with an HTTP status.
func (e *Error) HasStatus() bool {
	return e.Status != nil
}

// ProviderError builds a provider error. status <= 0 means no response.
func ProviderError(message string, status int, cause error) *Error {
	e := &Error{Kind: KindProvider, Message: message, Err: cause}
	if status > 0 {
		s := status
		e.Status = &s
	}
	return e
}

// GeolocationError builds a geolocation error with the given code.
func GeolocationError(code int, message string) *Error {
	return &Error{Kind: KindGeolocation, Code: code, Message: message}
}

// AsError extracts an *Error from err, or wraps err as a generic error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindGeneric, Message: err.Error(), Err: err}
}

// Describe renders err with a prefix naming its origin.
func Describe(err error) string {
	e := AsError(err)
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindProvider:
		return fmt.Sprintf("Weather API Error: %s", e.Message)
	case KindGeolocation:
		return fmt.Sprintf("Geolocation Error: %s", e.Message)
	case KindGeneric:
		if e.Message == "" {
			return "An unknown error occurred"
		}
		return fmt.Sprintf("Error: %s", e.Message)
	default:
		return "An unknown error occurred"
	}
}
