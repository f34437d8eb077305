package basedata

import (
	"errors"
	"fmt"
)

// Error codes for dataset loading.
const (
	ErrCodeNotFound  = "NOT_FOUND"
	ErrCodeRead      = "READ_FAILED"
	ErrCodeParse     = "PARSE_FAILED"
	ErrCodeSchema    = "SCHEMA_VIOLATION"
	ErrCodeDuplicate = "DUPLICATE"
)

// LoadError reports a dataset that could not be loaded.
type LoadError struct {
	Code       string
	Collection string // empty for directory-level errors
	Path       string
	Message    string
	Err        error
}

func (e *LoadError) Error() string {
	where := e.Path
	if e.Collection != "" {
		if where == "" {
			where = e.Collection
		} else {
			where = fmt.Sprintf("%s (%s)", e.Collection, e.Path)
		}
	}
	if where == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, where, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError returns true if err is or wraps a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
