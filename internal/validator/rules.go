package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"iskort_backend/internal/models"
)

var clockTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// registerCustomRules регистрирует кастомные правила валидации.
// Ошибка регистрации - ошибка программиста, поэтому panic.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register custom validation tag '%s': %v", tag, err))
		}
	}

	// 'is-account-role': admin, owner, user
	mustRegister("is-account-role", validateAccountRole)

	// 'is-notif-preference': email, sms, both
	mustRegister("is-notif-preference", validateNotifPreference)

	// 'is-clock-time': HH:MM в 24-часовом формате
	mustRegister("is-clock-time", validateClockTime)
}

func validateAccountRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения проверяет 'required'
	}
	return models.Role(value).Valid()
}

func validateNotifPreference(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.NotifPreference(value).Valid()
}

func validateClockTime(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return clockTimePattern.MatchString(value)
}
