package server

import (
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
	"github.com/jrsteele09/go-gadget-server/users"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message     string         `json:"message"`
	AccessToken string         `json:"accessToken"`
	User        users.Identity `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// LoginHandler exchanges credentials for an access token and a refresh cookie.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeBody(r, &req); err != nil {
			s.authFailed(w, "login", err)
			return
		}

		result, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.authFailed(w, "login", err)
			return
		}
		s.metrics.AuthEvent("login", "success")

		s.SetRefreshTokenCookie(w, result.RefreshToken)
		writeJSON(w, http.StatusOK, LoginResponse{
			Message:     fmt.Sprintf("User with email %s logged in successfully!", result.User.Email),
			AccessToken: result.AccessToken,
			User:        result.User,
		})
	}
}

// RefreshHandler issues a new access token for the refresh cookie.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessToken, err := s.auth.Refresh(r.Context(), refreshTokenFromRequest(r))
		if err != nil {
			s.authFailed(w, "refresh", err)
			return
		}
		s.metrics.AuthEvent("refresh", "success")
		writeJSON(w, http.StatusOK, RefreshResponse{AccessToken: accessToken})
	}
}

// LogoutHandler clears the refresh cookie. Without a cookie there is nothing to do.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.Logout(refreshTokenFromRequest(r)) {
			s.metrics.AuthEvent("logout", "no_cookie")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.metrics.AuthEvent("logout", "success")
		s.ClearRefreshTokenCookie(w)
		writeJSON(w, http.StatusOK, MessageResponse{Message: "User logged out successfully!"})
	}
}

func (s *Server) authFailed(w http.ResponseWriter, event string, err error) {
	s.metrics.AuthEvent(event, string(apperrors.KindOf(err)))
	writeError(w, authStatus(err), err)
}
