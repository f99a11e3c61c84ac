package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/homeservice/pkg/util"
)

var validate = validator.New()

// Struct checks the value's validate tags and converts failures into a
// VALIDATION_FAILED domain error carrying per-field details.
func Struct(value interface{}) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return util.NewInternalError(err)
	}

	details := make(map[string]interface{}, len(fieldErrors))
	for _, fe := range fieldErrors {
		details[fe.Field()] = fe.Tag()
	}
	return util.NewValidationError("request validation failed", details)
}
