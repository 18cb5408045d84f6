package server

import (
	"fmt"
	"net/http"
)

type updateUserRequest struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, authStatus(err), err)
			return
		}

		user, err := s.users.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, authStatus(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, MessageResponse{
			Message: fmt.Sprintf("User with email %s created successfully!", user.Email),
		})
	}
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateUserRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, authStatus(err), err)
			return
		}

		user, err := s.users.Update(r.Context(), req.ID, req.Email, req.Password)
		if err != nil {
			writeError(w, authStatus(err), err)
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{
			Message: fmt.Sprintf("User with email %s updated successfully!", user.Email),
		})
	}
}
