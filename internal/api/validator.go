package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	app_errors "relaychat/backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getInstance returns the shared validator. Field names in its errors follow
// the JSON tags, so messages match what the client sent.
func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateRequest checks payload against its `validate` tags and wraps any
// failure in app_errors.ErrValidation.
func validateRequest(payload interface{}) error {
	err := getInstance().Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: an unexpected error occurred during validation: %s", app_errors.ErrValidation, err.Error())
	}

	var errorMessages []string
	for _, fieldErr := range validationErrors {
		// e.g. "Field 'messages[0].role' failed on the 'oneof' tag"
		errorMessages = append(errorMessages, fmt.Sprintf("Field '%s' failed on the '%s' tag", fieldPath(fieldErr), fieldErr.Tag()))
	}

	return fmt.Errorf("%w: %s", app_errors.ErrValidation, strings.Join(errorMessages, "; "))
}

// fieldPath drops the root struct name from the error namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
