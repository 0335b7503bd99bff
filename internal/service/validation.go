package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bcrypt ignora (y x/crypto rechaza) contraseñas de mas de 72 bytes.
const maxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput corre las reglas declaradas en los tags y devuelve solo el
// primer campo que falla, en orden de declaracion.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{Field: fieldErrs[0].Field(), Rule: fieldErrs[0].Tag()}
	}
	return fmt.Errorf("validate input: %w: %w", ErrInternal, err)
}

func validatePassword(password string) error {
	if len(password) > maxPasswordBytes {
		return &ValidationError{Field: "password", Rule: "max"}
	}
	return nil
}
