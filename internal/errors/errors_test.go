package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizerError_Format(t *testing.T) {
	err := NewConfigurationError("optimization", "NewUniverse", "input vectors differ in length").
		WithContext("variations", 3).
		WithContext("betas", 2)

	assert.Equal(t, "[CONFIG:optimization] NewUniverse: input vectors differ in length betas=2 variations=3", err.Error())
	assert.False(t, err.IsRetryable())
}

func TestWrapError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := WrapError(cause, ErrorCategoryNetwork, "bybit", "GetKlines")

	require.NotNil(t, err)
	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, err.IsRetryable())
	assert.Nil(t, WrapError(nil, ErrorCategoryData, "x", "y"))
}

func TestIsConfigurationError_ThroughWrapping(t *testing.T) {
	base := NewConfigurationError("config", "Validate", "population size must be even")
	wrapped := fmt.Errorf("loading: %w", base)

	assert.True(t, IsConfigurationError(wrapped))
	assert.False(t, IsValidationError(wrapped))
	assert.False(t, IsConfigurationError(fmt.Errorf("plain")))
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCategory
	}{
		{"timeout", fmt.Errorf("request timeout"), ErrorCategoryTimeout},
		{"deadline", fmt.Errorf("context deadline exceeded"), ErrorCategoryTimeout},
		{"dial", fmt.Errorf("dial tcp: no route"), ErrorCategoryNetwork},
		{"parse", fmt.Errorf("failed to parse float"), ErrorCategoryData},
		{"other", fmt.Errorf("something odd"), ErrorCategoryValidation},
		{"already categorized", NewOutputError("reporting", "WriteXLSX", fmt.Errorf("disk full")), ErrorCategoryOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeError(tt.err, "test", "op")
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.Category)
		})
	}

	assert.Nil(t, CategorizeError(nil, "test", "op"))
}
