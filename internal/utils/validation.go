package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/taskhub-dev/taskhub/internal/apierrors"
	"github.com/taskhub-dev/taskhub/internal/types"
)

// BindingError turns a gin binding failure into a 400 with a field→message
// list when the cause is a validator error, or a generic bad request
// otherwise (malformed JSON, wrong types).
func BindingError(err error) *apierrors.APIError {
	var validationErrs validator.ValidationErrors

	if !errors.As(err, &validationErrs) {
		return apierrors.BadRequest("Invalid request body")
	}

	fields := make([]types.FieldError, 0, len(validationErrs))

	for _, fe := range validationErrs {
		fields = append(fields, types.FieldError{
			Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
			Message: validationMessage(fe),
		})
	}

	return apierrors.Validation(fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "oneof":
		return "Must be one of: " + fe.Param()
	}
	return "Invalid value"
}
