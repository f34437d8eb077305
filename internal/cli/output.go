package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/hq/internal/basedata"
	"github.com/roach88/hq/internal/progress"
	"github.com/roach88/hq/internal/slot"
	"github.com/roach88/hq/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Storage or filesystem failure (slot unwritable, export failed, etc.)
	ExitCommandError = 2 // Command error (unknown day, missing entry, invalid value or import file)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// storeError maps a store or slot error to an ExitError.
func storeError(message string, err error) error {
	switch {
	case errors.Is(err, store.ErrUnknownDay),
		errors.Is(err, store.ErrEntryNotFound),
		errors.Is(err, store.ErrInvalidValue),
		store.IsImportError(err):
		return WrapExitError(ExitCommandError, message, err)
	default:
		return WrapExitError(ExitFailure, message, err)
	}
}

// ErrorCode returns the machine-readable code reported in JSON errors.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, store.ErrUnknownDay):
		return "UNKNOWN_DAY"
	case errors.Is(err, store.ErrEntryNotFound):
		return "NOT_FOUND"
	case errors.Is(err, store.ErrInvalidValue):
		return "INVALID_VALUE"
	case store.IsImportError(err):
		return "IMPORT_INVALID"
	case slot.IsUnavailable(err):
		return "STORAGE_UNAVAILABLE"
	case basedata.IsLoadError(err):
		return "BASE_DATA"
	}
	if GetExitCode(err) == ExitCommandError {
		return "COMMAND_ERROR"
	}
	return "FAILURE"
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool
	Lang    language.Tag // Locale for numbers in text output (default English)

	printer *message.Printer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "UNKNOWN_DAY", "NOT_FOUND", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Render writes data as a JSON envelope, or calls text for text output.
func (f *OutputFormatter) Render(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return f.Success(data)
	}
	text(f.Writer)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}

// Percent formats a completion percentage for display, rounded the way
// progress.Round does.
func (f *OutputFormatter) Percent(p float64) string {
	return f.print().Sprintf("%d%%", progress.Round(p))
}

// Count formats n with the locale's digit grouping.
func (f *OutputFormatter) Count(n int) string {
	return f.print().Sprintf("%d", n)
}

func (f *OutputFormatter) print() *message.Printer {
	if f.printer == nil {
		tag := f.Lang
		if tag == language.Und {
			tag = language.English
		}
		f.printer = message.NewPrinter(tag)
	}
	return f.printer
}
