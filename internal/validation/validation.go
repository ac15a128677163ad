// Package validation checks request and criteria structs against their
// validate tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"quad/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)
	validate.RegisterStructValidation(validateBirthYearRange, models.VoterCriteria{})
}

// jsonName reports fields by their JSON key so messages match request bodies.
func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func validateBirthYearRange(sl validator.StructLevel) {
	c := sl.Current().Interface().(models.VoterCriteria)
	if c.MinBirthYear != nil && c.MaxBirthYear != nil && *c.MinBirthYear > *c.MaxBirthYear {
		sl.ReportError(c.MaxBirthYear, "max_birth_year", "MaxBirthYear", "gtefield", "min_birth_year")
	}
}

// Struct validates s and returns a validation AppError naming every failed field.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.NewInternalError(err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return models.NewValidationError(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
