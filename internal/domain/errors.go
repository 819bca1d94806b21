package domain

import "errors"

// Sentinel error kinds for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP responses without leaking infrastructure details.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("persistence failure")
	ErrTransport   = errors.New("transport failure")
	ErrExtraction  = errors.New("extraction failure")
)

// Error couples an error kind with the user-facing message returned in
// API responses. Error() is the message; Unwrap() exposes the kind so
// callers branch with errors.Is rather than on message text.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

// E builds a *Error from a sentinel kind and a user-facing message.
func E(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}
