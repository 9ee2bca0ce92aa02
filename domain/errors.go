package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string

	// Fields carries field-level detail for validation errors.
	Fields map[string]string

	// Limit and Used are set for quota errors.
	Limit int
	Used  int

	Err error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeNotFoundOrUnauthorized = "NOT_FOUND_OR_UNAUTHORIZED"
	ErrCodeQuotaExceeded          = "QUOTA_EXCEEDED"
	ErrCodeStoreUnavailable       = "STORE_UNAVAILABLE"
	ErrCodeRateLimited            = "RATE_LIMITED"
	ErrCodeAIUnavailable          = "AI_UNAVAILABLE"
)

// Quota dimensions
const (
	QuotaPlants        = "plants"
	QuotaAIGenerations = "ai_generations"
)

// NewValidationError creates a validation error with per-field messages
func NewValidationError(fields map[string]string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+fields[k])
	}

	return &DomainError{
		Code:    ErrCodeValidation,
		Message: strings.Join(parts, "; "),
		Fields:  fields,
	}
}

// NewFieldError is a shortcut for a single invalid field
func NewFieldError(field, msg string) error {
	return NewValidationError(map[string]string{field: msg})
}

// NewNotFoundOrUnauthorizedError hides whether the resource exists at all.
func NewNotFoundOrUnauthorizedError(resource string) error {
	return &DomainError{
		Code:    ErrCodeNotFoundOrUnauthorized,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewQuotaExceededError creates a quota error for the given dimension
func NewQuotaExceededError(dimension string, limit, used int) error {
	return &DomainError{
		Code:    ErrCodeQuotaExceeded,
		Message: fmt.Sprintf("%s limit of %d reached", dimension, limit),
		Limit:   limit,
		Used:    used,
	}
}

// NewStoreUnavailableError wraps a failure of the record store
func NewStoreUnavailableError(err error) error {
	return &DomainError{
		Code:    ErrCodeStoreUnavailable,
		Message: "record store unavailable",
		Err:     err,
	}
}

func NewRateLimitedError() error {
	return &DomainError{
		Code:    ErrCodeRateLimited,
		Message: "too many requests",
	}
}

// NewAIUnavailableError reports a failed identification or care generation.
func NewAIUnavailableError(err error) error {
	return &DomainError{
		Code:    ErrCodeAIUnavailable,
		Message: "plant assistant unavailable",
		Err:     err,
	}
}

func hasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

// IsNotFoundOrUnauthorized checks if the error hides a missing or foreign resource
func IsNotFoundOrUnauthorized(err error) bool {
	return hasCode(err, ErrCodeNotFoundOrUnauthorized)
}

// IsQuotaExceeded checks if the error is a quota error
func IsQuotaExceeded(err error) bool {
	return hasCode(err, ErrCodeQuotaExceeded)
}

// IsStoreUnavailable checks if the error is a store failure
func IsStoreUnavailable(err error) bool {
	return hasCode(err, ErrCodeStoreUnavailable)
}

func IsRateLimited(err error) bool {
	return hasCode(err, ErrCodeRateLimited)
}

func IsAIUnavailable(err error) bool {
	return hasCode(err, ErrCodeAIUnavailable)
}

// AsDomainError returns the wrapped DomainError, if any
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
