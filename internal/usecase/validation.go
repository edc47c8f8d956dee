package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/GoArmGo/Foodgram/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// GetValidator возвращает общий экземпляр валидатора.
// Имена полей в ошибках берутся из json-тегов.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("hexcolor", func(fl validator.FieldLevel) bool {
			return domain.ValidTagColor(fl.Field().String())
		})
	})
	return validate
}

// validateStruct проверяет структуру по validate-тегам и складывает
// нарушения в failure с видом InvalidField.
func validateStruct(s any, failure *domain.ValidationFailure) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", s, err)
	}
	for _, fe := range fieldErrs {
		failure.Add(domain.InvalidField, fe.Field(), fieldMessage(fe))
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Обязательное поле."
	case "email":
		return "Введите правильный адрес электронной почты."
	case "max":
		return fmt.Sprintf("Убедитесь, что это значение содержит не более %s символов.", fe.Param())
	case "min":
		return fmt.Sprintf("Убедитесь, что это значение содержит не менее %s символов.", fe.Param())
	case "username":
		return "Имя пользователя может содержать только буквы, цифры и символы @/./+/-/_."
	case "hexcolor":
		return "Цвет должен быть в формате HEX, например #E26C2D."
	default:
		return fmt.Sprintf("Некорректное значение (%s).", fe.Tag())
	}
}
