package users

import "context"

// UserRepo persists users. Implementations return errors.ErrNotFound for
// unknown users and ErrDuplicateEmail when an email is already taken.
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
