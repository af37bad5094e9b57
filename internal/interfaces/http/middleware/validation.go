package middleware

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/library/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// lendingValidations are the binding tags the lending DTOs use on top of
// the validator built-ins.
var lendingValidations = map[string]validator.Func{
	// calendar_date accepts YYYY-MM-DD
	"calendar_date": func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.DateOnly, fl.Field().String())
		return err == nil
	},
	// decimal accepts a plain decimal string such as "12.50"
	"decimal": func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil
	},
}

// SetupValidator names binding errors after json (or form) tags and
// registers the lending validation tags on gin's validator.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(jsonFieldName)
	for tag, fn := range lendingValidations {
		_ = v.RegisterValidation(tag, fn)
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
	}
	return name
}

// ValidationDetails converts binding validation errors into response
// details. ok is false when err is not a validation failure.
func ValidationDetails(err error) ([]dto.ValidationDetail, bool) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, false
	}
	details := make([]dto.ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: describe(fe)})
	}
	return details, true
}

func describe(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Must be at least " + fe.Param() + unit
	case "max":
		return "Must be at most " + fe.Param() + unit
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "calendar_date":
		return "Must be a date in YYYY-MM-DD format"
	case "decimal":
		return "Must be a decimal number"
	}
	return "Invalid value"
}
