package services

import "errors"

var (
	ErrAuthenticationMissing = errors.New("authentication missing")
	ErrMissingProgram        = errors.New("caller has no study program")
	ErrForbidden             = errors.New("access denied")
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrUnsupportedFormat     = errors.New("unsupported export format")
)

// UserError pairs one of the sentinel errors with the message shown to the
// user. errors.Is matches the sentinel.
type UserError struct {
	Kind    error
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Kind
}

func userError(kind error, message string) error {
	return &UserError{Kind: kind, Message: message}
}

// UserMessage returns the user-facing message carried by err, or fallback.
func UserMessage(err error, fallback string) string {
	var ue *UserError
	if errors.As(err, &ue) && ue.Message != "" {
		return ue.Message
	}
	return fallback
}
