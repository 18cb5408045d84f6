package auth

import (
	"fmt"

	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
)

var (
	ErrMissingCredentials = fmt.Errorf("missing credentials: %w", apperrors.ErrValidation)
	ErrUserNotFound       = fmt.Errorf("user not found: %w", apperrors.ErrNotFound)
	ErrIncorrectPassword  = fmt.Errorf("incorrect password: %w", apperrors.ErrUnauthorized)
	ErrNoRefreshToken     = fmt.Errorf("no refresh token: %w", apperrors.ErrUnauthorized)
	ErrInvalidRefresh     = fmt.Errorf("invalid refresh token: %w", apperrors.ErrForbidden)
	ErrUnknownSubject     = fmt.Errorf("token subject no longer exists: %w", apperrors.ErrUnauthorized)
)
