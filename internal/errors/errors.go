// Package errors provides a lightweight structured error type (DocgenError)
// for category-based classification across the CLI and build pipeline.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a docgen error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External system integration errors
	CategoryExtract ErrorCategory = "extract"
	CategoryGit     ErrorCategory = "git"
	CategoryEvents  ErrorCategory = "events"

	// Build and processing errors
	CategoryBuild      ErrorCategory = "build"
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryState    ErrorCategory = "state"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// DocgenError is a structured error with category, severity, and context
type DocgenError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for DocgenError
type ContextFields map[string]any

// Error implements the error interface
func (e *DocgenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *DocgenError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *DocgenError) WithContext(key string, value any) *DocgenError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithSeverity overrides the severity of the error
func (e *DocgenError) WithSeverity(severity ErrorSeverity) *DocgenError {
	e.Severity = severity
	return e
}

// New creates a new DocgenError
func New(category ErrorCategory, severity ErrorSeverity, message string) *DocgenError {
	return &DocgenError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new DocgenError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *DocgenError {
	return &DocgenError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}
