package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Field is a named request value whose zero value counts as missing.
type Field struct {
	Name  string
	Value any
}

func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// RequireFields reports the first missing field, in the order given.
func RequireFields(fields ...Field) error {
	for _, f := range fields {
		if !isPresent(f.Value) {
			return fiber.NewError(
				fiber.StatusBadRequest,
				fmt.Sprintf("Please provide %s to proceed.", strings.ReplaceAll(f.Name, "_", " ")),
			)
		}
	}
	return nil
}

func isPresent(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return strings.TrimSpace(rv.String()) != ""
	case reflect.Slice, reflect.Map:
		return !rv.IsNil()
	}
	return !rv.IsZero()
}
