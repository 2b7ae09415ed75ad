package validator

import (
	"reflect"
	"strings"

	"hospital-booking/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report fields by their JSON name so messages match the request body.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("date", validateDate)
	_ = v.RegisterValidation("timeslot", validateTimeSlot)

	return &CustomValidator{
		validator: v,
	}
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
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gt":
				errors[field] = field + " must be greater than " + e.Param()
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "uuid":
				errors[field] = field + " must be a valid UUID"
			case "date":
				errors[field] = field + " must be a date formatted as YYYY-MM-DD"
			case "timeslot":
				errors[field] = field + " must be a time such as 10:00 or 10:00 AM"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := entity.ParseDate(fl.Field().String())
	return err == nil
}

func validateTimeSlot(fl validator.FieldLevel) bool {
	_, err := entity.ParseTimeSlot(fl.Field().String())
	return err == nil
}
