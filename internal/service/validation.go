package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/employee-tracker/internal/domain"
	"github.com/go-playground/validator/v10"
)

// newValidator создаёт валидатор, который называет поля по json-тегам
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validate проверяет запрос и приводит первую ошибку к domain.ValidationError
func validate(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return &domain.ValidationError{Field: fe.Field(), Reason: describeField(fe)}
}

func describeField(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return field + " cannot be empty"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "numeric":
		return field + " must be a number"
	case "min":
		return field + " must be selected"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
