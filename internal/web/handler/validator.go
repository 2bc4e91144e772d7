package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse describes one failed field.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Param       string
	Value       any
}

// Message renders the failure for API clients.
func (e ErrorResponse) Message() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%q is required", e.FailedField)
	case "email":
		return fmt.Sprintf("%q must be a valid email", e.FailedField)
	case "url":
		return fmt.Sprintf("%q must be a valid uri", e.FailedField)
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", e.FailedField, e.Param)
	case "gte":
		return fmt.Sprintf("%q must be greater than or equal to %s", e.FailedField, e.Param)
	case "lte", "max":
		return fmt.Sprintf("%q must be less than or equal to %s", e.FailedField, e.Param)
	case "contains":
		return fmt.Sprintf("%q must contain %q", e.FailedField, e.Param)
	default:
		return fmt.Sprintf("%q failed on %s", e.FailedField, e.Tag)
	}
}

// Validator checks request structs, reporting fields by their json name.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	return &Validator{validate: v}
}

// Validate returns one ErrorResponse per failed field.
func (v *Validator) Validate(data any) []ErrorResponse {
	var validationErrors []ErrorResponse

	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []ErrorResponse{{FailedField: "body", Tag: "invalid"}}
	}

	for _, fe := range errs {
		validationErrors = append(validationErrors, ErrorResponse{
			FailedField: fe.Field(),
			Tag:         fe.Tag(),
			Param:       fe.Param(),
			Value:       fe.Value(),
		})
	}

	return validationErrors
}

// Bind parses the JSON body into dst and validates it.
// The first failed field becomes the error message.
func (v *Validator) Bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return Validation("invalid request body")
	}

	if errs := v.Validate(dst); len(errs) > 0 {
		return Validation(errs[0].Message())
	}

	return nil
}
