package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs struct tag validation and maps failures to ErrInvalidInput.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		reasons := lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
			if fe.Param() != "" {
				return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
			}
			return fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag())
		})
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(reasons, "; "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
