// Package validation provides request validation using the validator/v10 library,
// with the country-code and dimension rules used by the breakdown API.
package validation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/protectedareas/wdpa-server/internal/countries"
	"github.com/protectedareas/wdpa-server/internal/domain"
	domainerrors "github.com/protectedareas/wdpa-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
//
// Extra tags:
//
//	iso3       three ASCII letters
//	iso3key    an iso3 code or several joined by ";"
//	dimension  one of the breakdown dimension API names
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove options like omitempty, -
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("iso3", func(fl validator.FieldLevel) bool {
		return countries.LooksLikeCode(fl.Field().String())
	})
	_ = v.RegisterValidation("iso3key", func(fl validator.FieldLevel) bool {
		return countries.LooksLikeCodeKey(fl.Field().String())
	})
	_ = v.RegisterValidation("dimension", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseDimension(fl.Field().String())
		return ok
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// Var validates a single value against tag, reporting failures under name.
func (v *Validator) Var(name string, value any, tag string) error {
	err := v.v.Var(value, tag)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	return domainerrors.ValidationWithDetails(
		fmt.Sprintf("%s %s", name, v.friendlyMessage(validationErrs[0])),
		map[string]string{name: v.friendlyMessage(validationErrs[0])},
	)
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string)
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = v.friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	counted := e.Kind() == reflect.Slice || e.Kind() == reflect.Map

	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if counted {
			return fmt.Sprintf("must contain at least %s items", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		if counted {
			return fmt.Sprintf("must contain at most %s items", e.Param())
		}
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "iso3":
		return "must be a three-letter ISO3 code"
	case "iso3key":
		return "must be an ISO3 code or ISO3 codes joined by ;"
	case "dimension":
		return "must be a known dimension"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	default:
		return "is invalid"
	}
}
