package server

import (
	"net/http"
)

// refreshTokenCookie carries the refresh token. It is never part of a JSON body.
const refreshTokenCookie = "refreshToken"

func (s *Server) SetRefreshTokenCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, s.refreshCookie(refreshToken, s.auth.RefreshTokenExpiry()))
}

// ClearRefreshTokenCookie expires the cookie with the same attributes it was set with.
func (s *Server) ClearRefreshTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, s.refreshCookie("", -1))
}

func (s *Server) refreshCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteNoneMode,
		MaxAge:   maxAge,
	}
}

func refreshTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
