package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"eatup/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = domain.NewValidator()

// ValidateRequest validates the request body against a struct with validation tags
func ValidateRequest(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return nil
}

// normalizer is implemented by request types that clean up their fields
// before validation.
type normalizer interface {
	Normalize()
}

// DecodeAndValidate decodes JSON request body and validates it. Both malformed
// bodies and failed checks are reported as domain.ErrValidation.
func DecodeAndValidate(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrValidation, err)
	}
	if n, ok := v.(normalizer); ok {
		n.Normalize()
	}
	return ValidateRequest(v)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors anywhere in err's chain to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var out []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			out = append(out, ValidationError{
				Field:   e.Field(),
				Message: getErrorMessage(e),
			})
		}
	}

	return out
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Must be at least " + e.Param() + " characters"
	case "max":
		return "Must be at most " + e.Param() + " characters"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	default:
		return "Invalid value"
	}
}
