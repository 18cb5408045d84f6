package gadgets

import (
	"fmt"

	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
)

var (
	ErrInvalidTransition = fmt.Errorf("invalid status transition: %w", apperrors.ErrValidation)
	ErrEmptyCodename     = fmt.Errorf("empty codename: %w", apperrors.ErrCreationFailed)
)

func notFoundError(id string) error {
	return apperrors.Newf(apperrors.ErrNotFound, "Gadget with id %s not found!", id)
}
