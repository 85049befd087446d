package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"shelfwatch/internal/types"
)

// Validator wraps go-playground/validator for request payload validation.
// Handlers call ValidateStruct on decoded request structs; failures come back
// as client-facing AppErrors with per-field details.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with JSON tag names used in error details,
// so clients see the field names they actually sent.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// ValidateStruct validates dst against its struct tags. On failure it returns
// a validation_missing_required_field AppError listing the offending fields.
func (v *Validator) ValidateStruct(dst interface{}) error {
	err := v.validate.Struct(dst)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "validation failed", err)
	}

	fields := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = "failed " + fe.Tag() + " validation"
	}

	appErr := types.NewAppError(
		types.ErrCodeValidationMissingField,
		"request validation failed",
		nil,
	)
	return appErr.WithDetails(map[string]any{"fields": fields})
}
