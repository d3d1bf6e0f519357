package service

import (
	"fmt"

	"eatup/internal/domain"
)

var validate = domain.NewValidator()

// validateStruct runs the struct's validate tags. The returned error wraps both
// domain.ErrValidation and the validator.ValidationErrors describing each field.
func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return nil
}
