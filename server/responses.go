package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"

	codeRateLimited = "RATE_LIMITED"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Status: status, Code: code, Message: message})
}

// writeError replies with status and the kind and client message of err.
func writeError(w http.ResponseWriter, status int, err error) {
	kind := apperrors.KindOf(err)
	message := apperrors.Message(err)
	if kind == apperrors.KindUnknown {
		log.Error().Err(err).Int("status", status).Msg("unclassified error")
		message = "Unknown error occurred!"
	} else {
		log.Debug().Err(err).Str("kind", string(kind)).Msg("request failed")
	}
	writeErrorBody(w, status, string(kind), message)
}

// authStatus maps an error kind to the status used by the auth and user
// endpoints. Gadget endpoints always answer 400.
func authStatus(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperrors.New(apperrors.ErrValidation, "Invalid request body!")
}
