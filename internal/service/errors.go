package service

import "errors"

var (
	// ErrForbidden is returned when the actor may not touch the resource.
	ErrForbidden = errors.New("unauthorized access")

	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports a bad or missing request field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
