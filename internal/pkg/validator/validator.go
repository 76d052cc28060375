package validator

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// vpaPattern - формат UPI VPA: handle@provider
var vpaPattern = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("upi_vpa", func(fl validator.FieldLevel) bool {
		return vpaPattern.MatchString(fl.Field().String())
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

// FailedTag возвращает тег правила, не прошедшего проверку для поля field.
func FailedTag(err error, field string) (string, bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "", false
	}
	for _, fe := range errs {
		if fe.Field() == field {
			return fe.Tag(), true
		}
	}
	return "", false
}
