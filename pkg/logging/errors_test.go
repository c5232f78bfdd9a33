// lootfilter/pkg/logging/errors_test.go

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	tests := []struct {
		name        string
		errType     ErrorType
		message     string
		err         error
		fields      map[string]interface{}
		expectedMsg string
	}{
		{
			name:        "Token error",
			errType:     ErrorTypeToken,
			message:     `Invalid token "Frobnicate" at line 3 (expected filter or modifier)`,
			err:         nil,
			fields:      map[string]interface{}{"line": 3},
			expectedMsg: `TOKEN: Invalid token "Frobnicate" at line 3 (expected filter or modifier)`,
		},
		{
			name:        "Store error",
			errType:     ErrorTypeStore,
			message:     "Failed to load item",
			err:         errors.New("connection refused"),
			fields:      map[string]interface{}{"id": "abc"},
			expectedMsg: "STORE: Failed to load item",
		},
		{
			name:        "Runtime error",
			errType:     ErrorTypeRuntime,
			message:     "No rule set loaded",
			err:         nil,
			fields:      nil,
			expectedMsg: "RUNTIME: No rule set loaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filterErr := NewError(tt.errType, tt.message, tt.err, tt.fields)

			assert.Equal(t, tt.errType, filterErr.Type)
			assert.Equal(t, tt.message, filterErr.Message)
			assert.Equal(t, tt.err, filterErr.Err)
			assert.Equal(t, tt.fields, filterErr.Fields)
			assert.Equal(t, tt.expectedMsg, filterErr.Error())

			if tt.err != nil {
				assert.Equal(t, tt.err, filterErr.Unwrap())
			} else {
				assert.Nil(t, filterErr.Unwrap())
			}
		})
	}
}

func TestIsType(t *testing.T) {
	base := NewError(ErrorTypeValidation, "bad item", nil, nil)
	wrapped := fmt.Errorf("saving item: %w", base)

	assert.True(t, IsType(base, ErrorTypeValidation))
	assert.True(t, IsType(wrapped, ErrorTypeValidation))
	assert.False(t, IsType(wrapped, ErrorTypeStore))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeValidation))
}

func TestLogError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected map[string]interface{}
	}{
		{
			name: "FilterError with all fields",
			err: &FilterError{
				Type:    ErrorTypeStore,
				Message: "Test error",
				Err:     errors.New("underlying error"),
				Fields: map[string]interface{}{
					"key1": "value1",
					"key2": 42,
				},
			},
			expected: map[string]interface{}{
				"error":      "underlying error",
				"error_type": "STORE",
				"message":    "Test error",
				"key1":       "value1",
				"key2":       float64(42),
				"level":      "error",
			},
		},
		{
			name: "FilterError without underlying error",
			err: &FilterError{
				Type:    ErrorTypeParse,
				Message: "Parse error",
				Fields: map[string]interface{}{
					"line": 10,
				},
			},
			expected: map[string]interface{}{
				"error_type": "PARSE",
				"message":    "Parse error",
				"line":       float64(10),
				"level":      "error",
			},
		},
		{
			name: "Standard error",
			err:  errors.New("standard error"),
			expected: map[string]interface{}{
				"error":   "standard error",
				"message": "standard error",
				"level":   "error",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			mockLogger := zerolog.New(&buf)

			LogError(mockLogger, tt.err)

			var logged map[string]interface{}
			err := json.Unmarshal(buf.Bytes(), &logged)
			assert.NoError(t, err)

			for k, v := range tt.expected {
				assert.Equal(t, v, logged[k], "Mismatch for key %s", k)
			}

			for k := range logged {
				_, expected := tt.expected[k]
				if !expected && k != "time" {
					t.Errorf("Unexpected key in logged data: %s", k)
				}
			}
		})
	}
}
