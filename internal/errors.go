package internal

import (
	"errors"
	"fmt"
)

var (
	ErrNilAction       = errors.New("act: nil action")
	ErrSelfAttach      = errors.New("act: list cannot contain itself")
	ErrAlreadyAttached = errors.New("act: action already attached to a list")
)

// HandlerError reports a handler that panicked while an event was fired.
type HandlerError struct {
	// Event is the name of the observable that was firing (started, completed, ...)
	Event string

	// Value is what the handler panicked with
	Value any
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("act: %s handler panicked: %v", e.Event, e.Value)
}

// Unwrap exposes the panic value when the handler panicked with an error.
func (e *HandlerError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}
