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

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.customers.ListCustomers(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Customer list failed", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var c core.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "All fields required")
		return
	}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "All fields required")
		return
	}

	if err := s.customers.CreateCustomer(r.Context(), c); err != nil {
		if errors.Is(err, storage.ErrDuplicateID) {
			writeError(w, http.StatusBadRequest, "ID already exists")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Customer create failed",
			applog.FieldError, err, applog.FieldCustomerID, c.ID)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeSuccess(w)
}

// handleUpdateCustomer replaces name/village/phone wholesale. An id that
// matches no row affects nothing and still reports success.
func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var c core.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	c.ID = chi.URLParam(r, "id")

	if err := s.customers.UpdateCustomer(r.Context(), c); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Customer update failed",
			applog.FieldError, err, applog.FieldCustomerID, c.ID)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeSuccess(w)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.customers.DeleteCustomer(r.Context(), id); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Customer delete failed",
			applog.FieldError, err, applog.FieldCustomerID, id)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeSuccess(w)
}
