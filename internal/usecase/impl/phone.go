package impl

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	domainerrors "dinein/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// newValidator registers the "phone" tag used by the session store.
func newValidator() *validator.Validate {
	validate := validator.New()
	err := validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}

	return validate
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)
}

// normalizePhone strips whitespace, validates the digits and prefixes the
// default country code when the number has none.
func normalizePhone(validate *validator.Validate, raw, defaultCountryCode string) (string, error) {
	phone := stripSpaces(raw)
	if err := validate.Var(phone, "required,phone"); err != nil {
		return "", domainerrors.ErrValidation.WithDetails("please enter a valid phone number")
	}

	if !strings.HasPrefix(phone, "+") {
		phone = defaultCountryCode + phone
	}

	return phone, nil
}

func validateOTP(validate *validator.Validate, code string, length int) error {
	if err := validate.Var(code, fmt.Sprintf("required,numeric,len=%d", length)); err != nil {
		return domainerrors.ErrValidation.WithDetails(fmt.Sprintf("please enter the %d-digit code", length))
	}

	return nil
}
