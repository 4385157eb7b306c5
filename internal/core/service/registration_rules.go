package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/hasandag/auth-service/internal/core/domain"
)

// Identity field limits. They match the column widths of the SQL schema so
// every backend rejects the same inputs.
const (
	usernameRule = "required,min=3,max=50"
	emailRule    = "required,email,max=100"
)

var fieldRules = validator.New()

// validateRegistration enforces the identity invariants regardless of which
// transport called Register.
func validateRegistration(username, email, password string) error {
	if err := fieldRules.Var(username, usernameRule); err != nil {
		return fmt.Errorf("%w: username must be 3-50 characters", domain.ErrInvalidInput)
	}
	if err := fieldRules.Var(email, emailRule); err != nil {
		return fmt.Errorf("%w: email must be a valid address of at most 100 characters", domain.ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	return nil
}
