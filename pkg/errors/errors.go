package errors

import (
	"errors"
	"fmt"
)

const (
	CodeUsage            = "USAGE"
	CodeBadParameter     = "BAD_PARAMETER"
	CodeMissingParameter = "MISSING_PARAMETER"
	CodeAbort            = "ABORT"
	CodeExit             = "EXIT"
)

// ExitCodeUsage is the process exit status for errors caused by user input.
const ExitCodeUsage = 2

// Types ////////////////////////////////////////

type CodedError interface {
	Code() string
}

// UsageError is an error caused by what the user typed. It is reported as a
// clean message and a non-zero exit status, never as a stack trace.
type UsageError struct {
	code string
	msg  string
	// ParamHint is the display name of the offending parameter, if known
	// (e.g. "'--count'" or "'NAME'").
	ParamHint string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) Code() string {
	return e.code
}

// ExitError stops command processing with the given status. A status of 0
// is a clean exit.
type ExitError struct {
	Status int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Status)
}

func (e *ExitError) Code() string {
	return CodeExit
}

type abortError struct{}

func (abortError) Error() string { return "Aborted!" }

func (abortError) Code() string { return CodeAbort }

// Error Creators ///////////////////////////////

// A generic usage error
func Usage(msg string) error {
	return &UsageError{code: CodeUsage, msg: msg}
}

// A value failed to convert or validate for the given parameter
func BadParameter(paramHint string, msg string) error {
	if paramHint == "" {
		return &UsageError{code: CodeBadParameter, msg: "Invalid value: " + msg}
	}
	return &UsageError{
		code:      CodeBadParameter,
		msg:       fmt.Sprintf("Invalid value for %s: %s", paramHint, msg),
		ParamHint: paramHint,
	}
}

// A required parameter was not provided. kind is "option" or "argument".
func MissingParameter(paramHint string, kind string) error {
	return &UsageError{
		code:      CodeMissingParameter,
		msg:       fmt.Sprintf("Missing %s %s.", kind, paramHint),
		ParamHint: paramHint,
	}
}

// The user cancelled an interactive prompt
func Abort() error {
	return abortError{}
}

// Stop processing and exit with status
func Exit(status int) error {
	return &ExitError{Status: status}
}

// Helpers //////////////////////////////////////

// IsUsage returns true for any error caused by user input.
func IsUsage(err error) bool {
	var uerr *UsageError
	return errors.As(err, &uerr)
}

func IsAbort(err error) bool {
	return Code(err) == CodeAbort
}

// ExitCode returns the process exit status appropriate for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Status
	}
	if IsUsage(err) {
		return ExitCodeUsage
	}
	return 1
}

// Return the error code, or the empty string
func Code(err error) string {
	var cerr CodedError
	if errors.As(err, &cerr) {
		return cerr.Code()
	}

	return ""
}
