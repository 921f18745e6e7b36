package triggers

import (
	stderrors "errors"
	"fmt"

	"trigger-engine/internal/common/errors"
)

// Sentinel registry errors.
var (
	// ErrTriggerNotFound is returned when a lookup misses.
	ErrTriggerNotFound = stderrors.New("trigger not found")
	// ErrTriggerAlreadyRegistered is returned when registering a trigger
	// whose identity is already present. Registration rejects duplicates;
	// unregister first to replace a trigger.
	ErrTriggerAlreadyRegistered = stderrors.New("trigger already registered")
)

// notFoundError builds the structured form of a registry miss.
func notFoundError(id string) *errors.AppError {
	return &errors.AppError{
		Code:     "trigger.registry.not_found",
		Kind:     errors.KindNotFound,
		Severity: errors.SeverityMedium,
		Message:  fmt.Sprintf("trigger %s not found", id),
		Cause:    ErrTriggerNotFound,
	}
}

// duplicateError builds the structured form of a duplicate registration.
func duplicateError(id string) *errors.AppError {
	return &errors.AppError{
		Code:     "trigger.registry.duplicate",
		Kind:     errors.KindValidation,
		Severity: errors.SeverityMedium,
		Message:  fmt.Sprintf("trigger %s is already registered", id),
		Cause:    ErrTriggerAlreadyRegistered,
	}
}
