package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/task-service/pkg/util"
)

var validate = validator.New()

// Validate checks struct tags and converts violations into the service's
// validation error shape.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return util.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return util.NewValidationError("invalid payload", details)
}
