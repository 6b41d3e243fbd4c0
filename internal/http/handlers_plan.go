package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pspupun/girish-cable-admin/internal/core"
	applog "github.com/pspupun/girish-cable-admin/internal/log"
	"github.com/pspupun/girish-cable-admin/internal/storage"
)

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.ListPlans(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Plan list failed", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var p core.Plan
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "All fields required")
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "All fields required")
		return
	}

	if err := s.plans.CreatePlan(r.Context(), p); err != nil {
		if errors.Is(err, storage.ErrDuplicateID) {
			writeError(w, http.StatusBadRequest, "ID already exists")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Plan create failed",
			applog.FieldError, err, applog.FieldPlanID, p.ID)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeSuccess(w)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	var p core.Plan
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p.ID = chi.URLParam(r, "id")

	if err := s.plans.UpdatePlan(r.Context(), p); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Plan update failed",
			applog.FieldError, err, applog.FieldPlanID, p.ID)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeSuccess(w)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.plans.DeletePlan(r.Context(), id); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Plan delete failed",
			applog.FieldError, err, applog.FieldPlanID, id)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeSuccess(w)
}
