package domain

import "errors"

var (
	// ErrCommandNotFound is returned when no command has the requested ID.
	ErrCommandNotFound = errors.New("command not found")

	// ErrIDMismatch is returned when an update targets one ID with a body carrying another.
	ErrIDMismatch = errors.New("command id does not match request id")
)

// ValidationError reports an invalid command field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}
