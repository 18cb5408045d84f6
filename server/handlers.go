package server

import (
	"net/http"
	"strings"
)

// NotFoundHandler answers every unmatched route. Preflights that carry an
// Origin are answered by CorsMiddleware before reaching it.
func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		accept := r.Header.Get("Accept")
		if accept == "" || strings.Contains(accept, "json") || strings.Contains(accept, "*/*") {
			writeJSON(w, http.StatusNotFound, MessageResponse{Message: "404 Not Found"})
			return
		}
		w.Header().Set("Content-Type", contentTypeText)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("404 Not Found"))
	}
}
