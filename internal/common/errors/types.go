package errors

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes an error by its nature and origin.
type ErrorKind string

const (
	// KindNotFound represents resource not found errors
	KindNotFound ErrorKind = "NotFound"
	// KindValidation represents input validation errors
	KindValidation ErrorKind = "Validation"
	// KindTimeout represents timeout errors
	KindTimeout ErrorKind = "Timeout"
	// KindInternal represents internal system errors
	KindInternal ErrorKind = "Internal"
	// KindExternal represents errors from external collaborators
	KindExternal ErrorKind = "External"
	// KindUnknown represents unclassified errors
	KindUnknown ErrorKind = "Unknown"
)

// ErrorSeverity prioritizes an error for monitoring and alerting.
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "Critical"
	SeverityHigh     ErrorSeverity = "High"
	SeverityMedium   ErrorSeverity = "Medium"
	SeverityLow      ErrorSeverity = "Low"
)

// AppError is the structured application error used across the engine.
//
// Codes follow the hierarchical pattern <module>.<category>.<subcategory>,
// e.g. "trigger.registry.not_found" or "trigger.evaluation.condition_failed".
type AppError struct {
	Code     string                 `json:"code"`
	Kind     ErrorKind              `json:"kind"`
	Severity ErrorSeverity          `json:"severity"`
	Message  string                 `json:"message"`
	Cause    error                  `json:"-"`
	Context  map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	parts := []string{string(e.Kind), e.Message}

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}

	if len(e.Context) > 0 {
		contextParts := make([]string, 0, len(e.Context))
		for k, v := range e.Context {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context={%s}", strings.Join(contextParts, ", ")))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// LogEntry renders the error in the canonical log line format:
// "[code] [kind severity] message".
func (e *AppError) LogEntry() string {
	return fmt.Sprintf("[%s] [%s %s] %s", e.Code, e.Kind, e.Severity, e.Message)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause attaches an underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NotFoundError creates a new not found error for the given resource.
func NotFoundError(code, resource string) *AppError {
	return &AppError{
		Code:     code,
		Kind:     KindNotFound,
		Severity: SeverityMedium,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

// InvalidInputError creates a new validation error.
func InvalidInputError(code, msg string) *AppError {
	return &AppError{
		Code:     code,
		Kind:     KindValidation,
		Severity: SeverityMedium,
		Message:  msg,
	}
}

// InternalError creates a new internal error.
func InternalError(code, msg string, cause error) *AppError {
	return &AppError{
		Code:     code,
		Kind:     KindInternal,
		Severity: SeverityHigh,
		Message:  msg,
		Cause:    cause,
	}
}

// ExternalError creates an error originating from an external collaborator.
func ExternalError(code, msg string, cause error) *AppError {
	return &AppError{
		Code:     code,
		Kind:     KindExternal,
		Severity: SeverityHigh,
		Message:  msg,
		Cause:    cause,
	}
}

// TimeoutError creates a new timeout error for the given operation.
func TimeoutError(code, operation string) *AppError {
	return &AppError{
		Code:     code,
		Kind:     KindTimeout,
		Severity: SeverityMedium,
		Message:  fmt.Sprintf("timeout during %s", operation),
	}
}

// IsKind checks if an error is of a specific kind
func IsKind(err error, kind ErrorKind) bool {
	if err == nil {
		return false
	}

	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}

	return appErr.Kind == kind
}

// GetKind returns the error kind if it's an AppError, otherwise KindUnknown
func GetKind(err error) ErrorKind {
	if err == nil {
		return ""
	}

	appErr, ok := err.(*AppError)
	if !ok {
		return KindUnknown
	}

	return appErr.Kind
}
