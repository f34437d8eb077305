package store

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDay is returned when a day id is not in the registry.
	ErrUnknownDay = errors.New("unknown day")

	// ErrEntryNotFound is returned when no entry has the given id.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidValue is returned for empty required text or an
	// out-of-range enum value.
	ErrInvalidValue = errors.New("invalid value")
)

// ImportError reports an import file that could not be decoded.
// The current overlay is left untouched.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import: invalid file: %v", e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// IsImportError returns true if err is or wraps an ImportError.
func IsImportError(err error) bool {
	var ie *ImportError
	return errors.As(err, &ie)
}

func unknownDay(day string) error {
	return fmt.Errorf("%w: %q", ErrUnknownDay, day)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrEntryNotFound, kind, id)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...))
}
