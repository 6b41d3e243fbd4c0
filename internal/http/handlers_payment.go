package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pspupun/girish-cable-admin/internal/core"
	applog "github.com/pspupun/girish-cable-admin/internal/log"
)

type updatePaymentRequest struct {
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
	Mode   string  `json:"mode"`
	Note   string  `json:"note"`
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")

	payments, err := s.payments.PaymentsByCustomer(r.Context(), customerID)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Payment list failed",
			applog.FieldError, err, applog.FieldCustomerID, customerID)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, payments)
}

// handleCreatePayment stores all seven fields as given. Month, year, and
// amount are not range-checked; status and mode accept any string, with
// the unpaid/cash defaults filled in when they are empty.
func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var p core.Payment
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p.ApplyDefaults()

	if err := s.payments.CreatePayment(r.Context(), p); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Payment create failed",
			applog.FieldError, err, applog.FieldCustomerID, p.CustomerID)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeSuccess(w)
}

// handleUpdatePayment mutates amount/status/mode/note only. A nonexistent
// payment id affects zero rows and still reports success.
func (s *Server) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.payments.UpdatePayment(r.Context(), id, req.Amount, req.Status, req.Mode, req.Note); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Payment update failed",
			applog.FieldError, err, applog.FieldPaymentID, id)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeSuccess(w)
}

// handleSummary reports totals relative to the server's current date, so the
// numbers roll over at month and year boundaries without any request input.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	summary, err := s.payments.Summary(r.Context(), int(now.Month()), now.Year())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Summary failed", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
