package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-gadget-server/users"
)

// Use separates access tokens from refresh tokens inside the claims.
type Use string

const (
	UseAccess  Use = "access"
	UseRefresh Use = "refresh"
)

// Claims carried by both token kinds. The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Use   Use    `json:"use"`
}

// Manager issues and validates the access and refresh tokens of a session.
// No revocation list is kept; a token is valid until it expires.
type Manager struct {
	accessSigner       Signer
	refreshSigner      Signer
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

func WithTokenExpiry(accessTokenExpiry time.Duration, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = accessTokenExpiry
		m.refreshTokenExpiry = refreshTokenExpiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// New creates a Manager. The two signers must use different keys so that a
// token issued for one purpose never verifies for the other.
func New(accessSigner, refreshSigner Signer, opts ...ManagerOption) (*Manager, error) {
	if accessSigner == nil || refreshSigner == nil {
		return nil, errors.New("[token New] access and refresh signers are required")
	}

	m := &Manager{
		accessSigner:       accessSigner,
		refreshSigner:      refreshSigner,
		accessTokenExpiry:  1 * time.Hour,
		refreshTokenExpiry: 7 * 24 * time.Hour,
		nowFunc:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) RefreshTokenExpiry() time.Duration {
	return m.refreshTokenExpiry
}

func (m *Manager) IssueAccessToken(identity users.Identity) (string, error) {
	return m.issue(identity, UseAccess, m.accessSigner, m.accessTokenExpiry)
}

func (m *Manager) IssueRefreshToken(identity users.Identity) (string, error) {
	return m.issue(identity, UseRefresh, m.refreshSigner, m.refreshTokenExpiry)
}

func (m *Manager) issue(identity users.Identity, use Use, signer Signer, expiry time.Duration) (string, error) {
	now := m.nowFunc()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.New().String(), // distinct tokens even within the same second
		},
		Email: identity.Email,
		Use:   use,
	}

	signed, err := signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("[token issue] %s token: %w", use, err)
	}
	return signed, nil
}

// Validate verifies signature, expiry and purpose of a token and returns the
// identity it was issued for.
func (m *Manager) Validate(tokenString string, use Use) (*users.Identity, error) {
	signer := m.accessSigner
	if use == UseRefresh {
		signer = m.refreshSigner
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, signer.GetVerificationKey,
		jwt.WithValidMethods([]string{signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(m.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classify(err)
	}
	if claims.Use != use || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}

	return &users.Identity{ID: claims.Subject, Email: claims.Email}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrTokenSignatureInvalid, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
