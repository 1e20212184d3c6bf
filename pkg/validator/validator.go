package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/timeslot"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report JSON field names so errors match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegisterValidation(v, "timeofday", validateTimeOfDay)
	mustRegisterValidation(v, "fdi_tooth", validateFDITooth)

	return &CustomValidator{
		validator: v,
	}
}

func mustRegisterValidation(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %q: %v", tag, err))
	}
}

// validateTimeOfDay accepts "HH:MM" or "h:mm AM/PM".
func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := timeslot.Parse(fl.Field().String())
	return err == nil
}

// validateFDITooth accepts permanent dentition codes 11-18, 21-28, 31-38, 41-48.
func validateFDITooth(fl validator.FieldLevel) bool {
	n := int(fl.Field().Int())
	quadrant, tooth := n/10, n%10
	return quadrant >= 1 && quadrant <= 4 && tooth >= 1 && tooth <= 8
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "uuid":
				errors[field] = field + " must be a valid UUID"
			case "datetime":
				errors[field] = field + " must be a date in format " + e.Param()
			case "timeofday":
				errors[field] = fmt.Sprintf("%s has invalid time %q, use a time like 14:30 or 2:30 PM", field, fmt.Sprint(e.Value()))
			case "fdi_tooth":
				errors[field] = field + " must contain FDI tooth numbers (11-48)"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
