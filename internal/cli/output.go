package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/roach88/ninjatrace/internal/config"
	"github.com/roach88/ninjatrace/internal/ninjalog"
	"github.com/roach88/ninjatrace/internal/timeline"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Malformed ninja log (bad header, truncated or malformed record)
	ExitCommandError = 2 // Command error (bad flags, missing files, database errors)
	ExitInternal     = 3 // Internal invariant violated; a bug, not bad input
)

// Error codes reported in JSON responses, one per exit code.
const (
	CodeInput    = "E001"
	CodeCommand  = "E002"
	CodeInternal = "E003"
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code
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
// Returns ExitCommandError if the error is not an ExitError, since those come
// from cobra itself (unknown flags, wrong argument counts).
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// classify wraps a reconstruction error with the exit code for its kind.
// Invariant violations are checked first so they are never mistaken for
// bad input.
func classify(err error) *ExitError {
	var cfgErr *config.ValidationError
	switch {
	case timeline.IsInvariantViolation(err):
		return WrapExitError(ExitInternal, "internal error", err)
	case ninjalog.IsInputError(err):
		return WrapExitError(ExitFailure, "malformed ninja log", err)
	case errors.As(err, &cfgErr):
		return WrapExitError(ExitCommandError, "bad configuration", err)
	default:
		return WrapExitError(ExitCommandError, "failed", err)
	}
}

func errorCode(exitCode int) string {
	switch exitCode {
	case ExitFailure:
		return CodeInput
	case ExitInternal:
		return CodeInternal
	default:
		return CodeCommand
	}
}

// PrintError writes err to w in red, once.
func PrintError(w io.Writer, err error) {
	color.New(color.FgRed, color.Bold).Fprint(w, "ninjatrace: ")
	color.New(color.FgRed).Fprintln(w, err.Error())
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// Text callers normally render their own tables; data is printed as-is.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
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

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return nil
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
