package errors

import "fmt"

// ValidationRule identifies which constraint a ValidationError violated.
type ValidationRule string

const (
	RuleEmptyValue       ValidationRule = "empty_value"
	RuleTooShort         ValidationRule = "too_short"
	RuleTooLong          ValidationRule = "too_long"
	RuleInvalidValue     ValidationRule = "invalid_value"
	RuleInvalidTimestamp ValidationRule = "invalid_timestamp"
)

// ValidationError is returned by constructors and Validate methods when a
// value violates its business rules. It is the only error family produced at
// construction/config time; lifecycle transitions use the state package's
// transition errors instead.
type ValidationError struct {
	Rule   ValidationRule
	Field  string
	Value  string
	Reason string
	Length int
	Min    int
	Max    int
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	switch e.Rule {
	case RuleEmptyValue:
		return fmt.Sprintf("%s must not be empty", e.Field)
	case RuleTooShort:
		return fmt.Sprintf("%s too short: %d (min: %d)", e.Field, e.Length, e.Min)
	case RuleTooLong:
		return fmt.Sprintf("%s too long: %d (max: %d)", e.Field, e.Length, e.Max)
	case RuleInvalidTimestamp:
		return fmt.Sprintf("invalid timestamp: %s", e.Reason)
	default:
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
}

// AsAppError converts the validation error into the structured application
// error form used for logging and API responses.
func (e *ValidationError) AsAppError(code string) *AppError {
	return &AppError{
		Code:     code,
		Kind:     KindValidation,
		Severity: SeverityMedium,
		Message:  e.Error(),
		Cause:    e,
	}
}

// EmptyValue reports that a required field was empty.
func EmptyValue(field string) *ValidationError {
	return &ValidationError{Rule: RuleEmptyValue, Field: field}
}

// TooShort reports that a value was below its minimum length.
func TooShort(field string, length, min int) *ValidationError {
	return &ValidationError{Rule: RuleTooShort, Field: field, Length: length, Min: min}
}

// TooLong reports that a value exceeded its maximum length.
func TooLong(field string, length, max int) *ValidationError {
	return &ValidationError{Rule: RuleTooLong, Field: field, Length: length, Max: max}
}

// InvalidValue reports that a value violated a field-specific rule.
func InvalidValue(field, value, reason string) *ValidationError {
	return &ValidationError{Rule: RuleInvalidValue, Field: field, Value: value, Reason: reason}
}

// InvalidTimestamp reports a malformed or out-of-range timestamp.
func InvalidTimestamp(reason string) *ValidationError {
	return &ValidationError{Rule: RuleInvalidTimestamp, Field: "timestamp", Reason: reason}
}
