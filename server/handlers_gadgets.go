package server

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-gadget-server/gadgets"
	"github.com/rs/zerolog/log"
)

type GadgetResponse struct {
	Message string          `json:"message"`
	Gadget  *gadgets.Gadget `json:"gadget"`
}

type GadgetListResponse struct {
	Gadgets []gadgets.Listing `json:"gadgets"`
}

type selfDestructRequest struct {
	ConfirmationCode string `json:"confirmationCode"`
}

// Gadget endpoints report every failure as 400 with the error kind in the body.

func (s *Server) CreateGadgetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gadget, err := s.gadgets.Create(r.Context())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.gadgetChanged(r, gadget)
		writeJSON(w, http.StatusCreated, GadgetResponse{
			Message: fmt.Sprintf("New gadget %q created successfully!", gadget.Name),
			Gadget:  gadget,
		})
	}
}

func (s *Server) ListGadgetsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings, err := s.gadgets.List(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, GadgetListResponse{Gadgets: listings})
	}
}

func (s *Server) UpdateGadgetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gadgets.UpdateRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		gadget, err := s.gadgets.Update(r.Context(), req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.NewStatus != nil && *req.NewStatus != "" {
			s.gadgetChanged(r, gadget)
		}
		writeJSON(w, http.StatusOK, GadgetResponse{
			Message: fmt.Sprintf("Gadget with id %s updated successfully.", gadget.ID),
			Gadget:  gadget,
		})
	}
}

func (s *Server) DecommissionGadgetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gadget, err := s.gadgets.Decommission(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.gadgetChanged(r, gadget)
		writeJSON(w, http.StatusOK, GadgetResponse{
			Message: fmt.Sprintf("Gadget with id %s removed successfully.", gadget.ID),
			Gadget:  gadget,
		})
	}
}

func (s *Server) SelfDestructGadgetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selfDestructRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		gadget, err := s.gadgets.SelfDestruct(r.Context(), r.PathValue("id"), req.ConfirmationCode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.gadgetChanged(r, gadget)
		writeJSON(w, http.StatusOK, GadgetResponse{
			Message: fmt.Sprintf("Gadget with id %s self-destructed successfully.", gadget.ID),
			Gadget:  gadget,
		})
	}
}

func (s *Server) gadgetChanged(r *http.Request, gadget *gadgets.Gadget) {
	s.metrics.StatusTransition(string(gadget.Status))

	identity, _ := IdentityFromContext(r.Context())
	log.Info().
		Str("gadget", gadget.ID).
		Str("status", string(gadget.Status)).
		Str("by", identity.Email).
		Msg("gadget status recorded")
}
