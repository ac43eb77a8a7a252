package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
	ErrorCategoryValidation    ErrorCategory = "VALIDATION"
	ErrorCategoryData          ErrorCategory = "DATA"

	// Only the market data download is retried
	ErrorCategoryNetwork ErrorCategory = "NETWORK"
	ErrorCategoryTimeout ErrorCategory = "TIMEOUT"
	ErrorCategoryOutput  ErrorCategory = "OUTPUT"
)

// OptimizerError represents a categorized error with context
type OptimizerError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *OptimizerError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Context[k])
		}
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, ": %v", e.Underlying)
	}
	return b.String()
}

// Unwrap returns the underlying error for error unwrapping
func (e *OptimizerError) Unwrap() error {
	return e.Underlying
}

// IsRetryable reports whether the failed operation may succeed on a second attempt
func (e *OptimizerError) IsRetryable() bool {
	return e.Category == ErrorCategoryNetwork || e.Category == ErrorCategoryTimeout
}

// WithContext adds context information to the error
func (e *OptimizerError) WithContext(key string, value interface{}) *OptimizerError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewOptimizerError creates a new categorized error
func NewOptimizerError(category ErrorCategory, component, operation, message string) *OptimizerError {
	return &OptimizerError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// WrapError wraps an existing error with category and location
func WrapError(err error, category ErrorCategory, component, operation string) *OptimizerError {
	if err == nil {
		return nil
	}
	return &OptimizerError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
	}
}

// CategorizeError attempts to categorize a generic error
func CategorizeError(err error, component, operation string) *OptimizerError {
	if err == nil {
		return nil
	}

	var optErr *OptimizerError
	if stderrors.As(err, &optErr) {
		return optErr
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "context deadline exceeded") {
		return WrapError(err, ErrorCategoryTimeout, component, operation)
	}

	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "dns") || strings.Contains(errMsg, "dial") {
		return WrapError(err, ErrorCategoryNetwork, component, operation)
	}

	if strings.Contains(errMsg, "invalid") || strings.Contains(errMsg, "parse") {
		return WrapError(err, ErrorCategoryData, component, operation)
	}

	return WrapError(err, ErrorCategoryValidation, component, operation)
}

func NewConfigurationError(component, operation, message string) *OptimizerError {
	return NewOptimizerError(ErrorCategoryConfiguration, component, operation, message)
}

func NewValidationError(component, operation, message string) *OptimizerError {
	return NewOptimizerError(ErrorCategoryValidation, component, operation, message)
}

func NewDataError(component, operation string, err error) *OptimizerError {
	return WrapError(err, ErrorCategoryData, component, operation)
}

func NewNetworkError(component, operation string, err error) *OptimizerError {
	return WrapError(err, ErrorCategoryNetwork, component, operation)
}

func NewOutputError(component, operation string, err error) *OptimizerError {
	return WrapError(err, ErrorCategoryOutput, component, operation)
}

// IsConfigurationError reports whether err (or anything it wraps) is a configuration error
func IsConfigurationError(err error) bool {
	return hasCategory(err, ErrorCategoryConfiguration)
}

// IsValidationError reports whether err (or anything it wraps) is a validation error
func IsValidationError(err error) bool {
	return hasCategory(err, ErrorCategoryValidation)
}

func hasCategory(err error, category ErrorCategory) bool {
	var optErr *OptimizerError
	if stderrors.As(err, &optErr) {
		return optErr.Category == category
	}
	return false
}
