package user

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "user-service/pkg/errors"
	"user-service/pkg/security"
)

// Validator checks the syntax of user requests before any store access.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the identifier and optional_email
// tags registered.
func NewValidator() *Validator {
	v := validator.New()

	// Registration only fails for empty tag names or nil functions.
	_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return security.IsIdentifier(fl.Field().String())
	})
	_ = v.RegisterValidation("optional_email", func(fl validator.FieldLevel) bool {
		return security.IsOptionalEmail(fl.Field().String())
	})

	return &Validator{validate: v}
}

// ValidateCreate returns nil when in is well formed, otherwise a ValidationError.
func (v *Validator) ValidateCreate(in *CreateUserRequest) error {
	if in == nil {
		return pkgerrors.NewValidationError("", "The create request is empty")
	}
	return v.check(in)
}

// ValidateUpdate returns nil when in is well formed, otherwise a ValidationError.
// A blank ID is reported before the other fields are looked at.
func (v *Validator) ValidateUpdate(in *UpdateUserRequest) error {
	if in == nil {
		return pkgerrors.NewValidationError("", "The update request is empty")
	}
	if security.IsBlank(in.ID) {
		return pkgerrors.NewValidationError("ID", fmt.Sprintf("Invalid Id '%s'", in.ID))
	}
	return v.check(in)
}

func (v *Validator) check(in any) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}
	return formatValidationError(err)
}

// formatValidationError converts validator.ValidationErrors into a ValidationError
// naming each offending field and its literal value.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return pkgerrors.NewInternalError("validation failed", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("The %s '%v' is invalid", e.Field(), e.Value()))
	}
	return pkgerrors.NewValidationError(validationErrors[0].Field(), strings.Join(messages, "; "))
}
