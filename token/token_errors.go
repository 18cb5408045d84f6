package token

import (
	"fmt"

	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
)

// Validation failures. All of them are forbidden to the caller; the kinds are
// kept apart for logging and tests.
var (
	ErrTokenExpired          = fmt.Errorf("token expired: %w", apperrors.ErrForbidden)
	ErrTokenMalformed        = fmt.Errorf("token malformed: %w", apperrors.ErrForbidden)
	ErrTokenSignatureInvalid = fmt.Errorf("token signature invalid: %w", apperrors.ErrForbidden)
)
