// lootfilter/pkg/logging/errors.go

package logging

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

type ErrorType string

const (
	// Filter language diagnostics.
	ErrorTypeToken       ErrorType = "TOKEN"
	ErrorTypeEndOfLine   ErrorType = "END_OF_LINE"
	ErrorTypeSocketGroup ErrorType = "SOCKET_GROUP"
	ErrorTypeParse       ErrorType = "PARSE"
	ErrorTypeWarning     ErrorType = "WARNING"

	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeStore      ErrorType = "STORE"
	ErrorTypeRuntime    ErrorType = "RUNTIME"
	ErrorTypeConfig     ErrorType = "CONFIG"
)

type FilterError struct {
	Type    ErrorType
	Message string
	Err     error
	Fields  map[string]interface{}
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

func NewError(errType ErrorType, message string, err error, fields map[string]interface{}) *FilterError {
	return &FilterError{
		Type:    errType,
		Message: message,
		Err:     err,
		Fields:  fields,
	}
}

// IsType reports whether err wraps a FilterError of the given type.
func IsType(err error, errType ErrorType) bool {
	var fe *FilterError
	return errors.As(err, &fe) && fe.Type == errType
}

func LogError(logger zerolog.Logger, err error) {
	var filterErr *FilterError
	if !errors.As(err, &filterErr) {
		logger.Error().Err(err).Msg(err.Error())
		return
	}

	event := logger.Error().Err(filterErr.Err).
		Str("error_type", string(filterErr.Type)).
		Str("message", filterErr.Message)

	for k, v := range filterErr.Fields {
		event = event.Interface(k, v)
	}

	event.Msg(filterErr.Message)
}
