package errors

import "errors"

// Sentinel errors shared by the relay. Services wrap them with context and
// the API layer maps them to status codes with errors.Is.

var (
	// ErrNotFound is returned for unknown relay records. Maps to 404.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// validation, e.g. an empty conversation.
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrProvider signifies that the upstream model provider rejected or failed
	// a request. The wrapped message is safe to show to the caller.
	// This is typically mapped to a 500 Internal Server Error HTTP status.
	ErrProvider = errors.New("provider error")

	// ErrConfig signifies an invalid or incomplete configuration detected
	// at startup (unknown provider, missing credentials).
	ErrConfig = errors.New("invalid configuration")

	// ErrInternal covers everything else. Its details are never sent to the
	// client, which sees "Internal Server Error".
	ErrInternal = errors.New("internal server error")
)
