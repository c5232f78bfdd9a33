// lootfilter/pkg/validator/validator.go

package validator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"rgehrsitz/lootfilter/pkg/item"
	"rgehrsitz/lootfilter/pkg/logging"
)

// SocketColors are the characters allowed in a socket group.
const SocketColors = "RGBWDA"

const maxSockets = 6

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		err := validate.RegisterValidation("socketgroup", func(fl validator.FieldLevel) bool {
			return IsSocketGroup(fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("registering socketgroup validation: %v", err))
		}
		validate.RegisterStructValidation(socketCapacity, item.Item{})
	})
	return validate
}

// IsSocketGroup reports whether s is a non-empty string over the socket alphabet.
func IsSocketGroup(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune(SocketColors, c) {
			return false
		}
	}
	return true
}

func socketCapacity(sl validator.StructLevel) {
	it := sl.Current().Interface().(item.Item)
	limit := it.Width * it.Height
	if limit > maxSockets {
		limit = maxSockets
	}
	if it.NumSockets() > limit {
		sl.ReportError(it.Sockets, "Sockets", "Sockets", "socketcapacity", fmt.Sprint(limit))
	}
}

// ValidateItem checks an item record before it is evaluated. The returned error is a
// *logging.FilterError of type VALIDATION listing every failed field.
func ValidateItem(it *item.Item) error {
	if it == nil {
		return logging.NewError(logging.ErrorTypeValidation, "item is nil", nil, nil)
	}

	err := instance().Struct(it)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return logging.NewError(logging.ErrorTypeValidation, "item validation failed", err, nil)
	}

	fields := make(map[string]interface{}, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
		msgs = append(msgs, describe(fe))
	}
	if it.ID != "" {
		fields["id"] = it.ID
	}
	return logging.NewError(logging.ErrorTypeValidation, strings.Join(msgs, "; "), err, fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Item has no %s", fe.Field())
	case "socketgroup":
		return fmt.Sprintf("Invalid socket group %q", fe.Value())
	case "socketcapacity":
		return fmt.Sprintf("Too many sockets for this item size (max %s)", fe.Param())
	default:
		return fmt.Sprintf("Invalid %s", fe.Field())
	}
}
