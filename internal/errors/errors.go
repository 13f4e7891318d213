// Package errors defines the categorized error type the CLI reports. Every
// failure surfaces as a CLIError whose category selects the process exit
// code and whose remediation steps tell the operator what to change.
package errors

import "fmt"

// ErrorCategory classifies where in the pipeline a failure happened.
type ErrorCategory int

const (
	// Argument: invalid or missing command arguments.
	Argument ErrorCategory = iota
	// Configuration: malformed config file or pattern.
	Configuration
	// Event: missing or malformed pull request event payload.
	Event
	// Fetch: the repository data source could not be queried.
	Fetch
	// Publish: committing the changelog back failed.
	Publish
	// Runtime: anything else.
	Runtime
)

var categoryNames = map[ErrorCategory]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	Event:         "Event Error",
	Fetch:         "Fetch Error",
	Publish:       "Publish Error",
	Runtime:       "Runtime Error",
}

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Error"
}

// CLIError is a categorized error with remediation guidance.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// Remediation lists actionable steps to resolve the error.
	Remediation []string
	// Usage shows the correct command syntax, for argument errors.
	Usage string
	// cause is the wrapped underlying error, if any.
	cause error
}

func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *CLIError) Unwrap() error {
	return e.cause
}

func newError(category ErrorCategory, message string, remediation []string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// NewArgumentError creates an Argument error.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return newError(Argument, message, remediation)
}

// NewConfigError creates a Configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return newError(Configuration, message, remediation)
}

// NewEventError creates an Event error.
func NewEventError(message string, remediation ...string) *CLIError {
	return newError(Event, message, remediation)
}

// NewFetchError creates a Fetch error.
func NewFetchError(message string, remediation ...string) *CLIError {
	return newError(Fetch, message, remediation)
}

// NewPublishError creates a Publish error.
func NewPublishError(message string, remediation ...string) *CLIError {
	return newError(Publish, message, remediation)
}

// NewRuntimeError creates a Runtime error.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return newError(Runtime, message, remediation)
}

// Wrap categorizes an existing error, keeping its message and cause chain.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
		cause:       err,
	}
}

// WrapWithMessage categorizes an existing error under a new leading message.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		cause:       err,
	}
}

// AsCLIError returns the error as a *CLIError, or nil if it is not one.
func AsCLIError(err error) *CLIError {
	if cliErr, ok := err.(*CLIError); ok {
		return cliErr
	}
	return nil
}
