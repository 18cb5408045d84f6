package users

import (
	"fmt"

	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
)

var ErrDuplicateEmail = fmt.Errorf("email already registered: %w", apperrors.ErrValidation)

func duplicateEmailError(email string) error {
	return apperrors.Newf(ErrDuplicateEmail, "User with email %s already exists!", email)
}

func userNotFoundError() error {
	return apperrors.New(apperrors.ErrNotFound, "User not found!")
}
