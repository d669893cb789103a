package repository

import (
	"errors"
	"fmt"
)

// Error kinds, checked with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrStorage         = errors.New("storage failure")
)

// Error carries the failing operation alongside its kind.
type Error struct {
	Op      string // e.g. "students.Add"
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

func (e *Error) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

func invalidArgument(op, message string) error {
	return &Error{Op: op, Kind: ErrInvalidArgument, Message: message}
}

func notFound(op, message string) error {
	return &Error{Op: op, Kind: ErrNotFound, Message: message}
}

func alreadyExists(op, message string) error {
	return &Error{Op: op, Kind: ErrAlreadyExists, Message: message}
}

func storageFailure(op, message string, err error) error {
	return &Error{Op: op, Kind: ErrStorage, Message: message, Err: err}
}
