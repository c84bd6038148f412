package drop

import (
	"errors"
	"fmt"
)

var (
	// ErrCapabilityUnavailable is returned when a node selected for traversal
	// lacks the capability needed to expand or materialize it.
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrUnderlyingRead matches every ReadError via errors.Is.
	ErrUnderlyingRead = errors.New("underlying read failure")
)

// ReadError records a failed host primitive.
type ReadError struct {
	Op   string // readEntries, values, file, getFile, handle
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Is(target error) bool { return target == ErrUnderlyingRead }

func readError(op, path string, err error) error {
	return &ReadError{Op: op, Path: path, Err: err}
}

func unavailable(what, path string) error {
	return fmt.Errorf("%s %q: %w", what, path, ErrCapabilityUnavailable)
}
