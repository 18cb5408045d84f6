package auth

import (
	"context"
	"errors"

	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
	"github.com/jrsteele09/go-gadget-server/token"
	"github.com/jrsteele09/go-gadget-server/users"
)

// LoginResult is what a successful login hands to the transport layer. The
// refresh token must only travel in an HTTP-only cookie.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         users.Identity
}

// AuthService drives the session lifecycle: login, access token refresh and
// logout.
type AuthService struct {
	users  users.UserRepo
	tokens *token.Manager
}

// NewAuthService initializes a new AuthService with required dependencies.
func NewAuthService(userRepo users.UserRepo, tokens *token.Manager) (*AuthService, error) {
	if userRepo == nil {
		return nil, errors.New("[NewAuthService] Users repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewAuthService] token manager is required")
	}
	return &AuthService{users: userRepo, tokens: tokens}, nil
}

// Login verifies the credentials and issues a fresh token pair.
func (as *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	user, err := as.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(ErrUserNotFound, "User with email %s not found!", email)
		}
		return nil, apperrors.Wrapf(err, "[Login] GetByEmail")
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.New(ErrIncorrectPassword, "Error signing in: Invalid password!")
	}

	identity := user.Identity()
	accessToken, err := as.tokens.IssueAccessToken(identity)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Login] IssueAccessToken")
	}
	refreshToken, err := as.tokens.IssueRefreshToken(identity)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Login] IssueRefreshToken")
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         identity,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is not rotated. Verification completes before anything is
// returned, so a caller never sees a token for a failed check.
func (as *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.New(ErrNoRefreshToken, "Unauthorized")
	}

	identity, err := as.tokens.Validate(refreshToken, token.UseRefresh)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.New(ErrInvalidRefresh, "Forbidden"), "[Refresh] %v", err)
	}

	user, err := as.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.New(ErrUnknownSubject, "Unauthorized")
		}
		return "", apperrors.Wrapf(err, "[Refresh] GetByEmail")
	}

	accessToken, err := as.tokens.IssueAccessToken(user.Identity())
	if err != nil {
		return "", apperrors.Wrapf(err, "[Refresh] IssueAccessToken")
	}
	return accessToken, nil
}

// Logout reports whether the client presented a refresh token to discard.
// Nothing is stored server side, so there is nothing else to revoke.
func (as *AuthService) Logout(refreshToken string) bool {
	return refreshToken != ""
}

// RefreshTokenExpiry is the lifetime of the refresh cookie.
func (as *AuthService) RefreshTokenExpiry() int {
	return int(as.tokens.RefreshTokenExpiry().Seconds())
}
