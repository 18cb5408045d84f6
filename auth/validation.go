package auth

import (
	"strings"

	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
)

// validateCredentials checks the presence of login input. Format checks belong
// to registration, not login.
func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return apperrors.New(ErrMissingCredentials, "Email and password are required!")
	}
	return nil
}
