package users

import (
	"context"
	"errors"

	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
)

// Service registers users and updates their credentials.
type Service struct {
	repo UserRepo
}

func NewService(repo UserRepo) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[users NewService] user repo is required")
	}
	return &Service{repo: repo}, nil
}

// Register creates a user with a unique, well formed email.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "Email and password are required!")
	}
	if !ValidEmail(email) {
		return nil, apperrors.New(apperrors.ErrValidation, "Please provide a valid email address!")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, duplicateEmailError(email)
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Wrapf(err, "[users Register] looking up %s", email)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[users Register] hashing password")
	}

	user := &User{Email: email, PasswordHash: hash}
	if err := s.repo.Create(ctx, user); err != nil {
		if apperrors.Is(err, ErrDuplicateEmail) {
			return nil, duplicateEmailError(email)
		}
		return nil, apperrors.Wrapf(apperrors.New(apperrors.ErrCreationFailed, "User could not be created!"), "[users Register] %v", err)
	}
	return user, nil
}

// Update replaces the email and password of an existing user, keeping its id.
func (s *Service) Update(ctx context.Context, id, email, password string) (*User, error) {
	if id == "" || email == "" || password == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "ID, email, and password are required!")
	}
	if !ValidEmail(email) {
		return nil, apperrors.New(apperrors.ErrValidation, "Please provide a valid email address!")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, userNotFoundError()
		}
		return nil, apperrors.Wrapf(err, "[users Update] looking up %s", id)
	}

	if other, err := s.repo.GetByEmail(ctx, email); err == nil {
		if other.ID != id {
			return nil, duplicateEmailError(email)
		}
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Wrapf(err, "[users Update] looking up %s", email)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[users Update] hashing password")
	}

	user.Email = email
	user.PasswordHash = hash
	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case apperrors.Is(err, ErrDuplicateEmail):
			return nil, duplicateEmailError(email)
		case apperrors.Is(err, apperrors.ErrNotFound):
			return nil, userNotFoundError()
		}
		return nil, apperrors.Wrapf(apperrors.New(apperrors.ErrUpdateFailed, "User could not be updated!"), "[users Update] %v", err)
	}
	return user, nil
}
