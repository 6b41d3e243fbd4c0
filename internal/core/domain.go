package core

import (
	"errors"
	"strings"
)

const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"

	ModeCash = "cash"
)

type (
	// User is a login credential record. Exactly one is seeded at
	// bootstrap; there is no registration or deletion path.
	User struct {
		Phone        string `json:"phone"`
		PasswordHash string `json:"-"`
	}

	// Customer is a cable subscriber. The id is supplied by the operator
	// (register/book number), not generated by the store.
	Customer struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Village string `json:"village"`
		Phone   string `json:"phone"`
	}

	// Plan is a named price tier. Informational only: nothing references
	// plans by foreign key.
	Plan struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
	}

	// Payment is one month's billing record for a customer.
	Payment struct {
		ID         int64   `json:"id"`
		CustomerID string  `json:"customer_id"`
		Month      int     `json:"month"`
		Year       int     `json:"year"`
		Amount     float64 `json:"amount"`
		Status     string  `json:"status"`
		Mode       string  `json:"mode"`
		Note       string  `json:"note"`
	}

	// Summary aggregates payment amounts relative to the server's current
	// date: paid totals for the running month and year, plus all-time
	// unpaid. It is derived, never persisted.
	Summary struct {
		MonthTotal float64 `json:"monthTotal"`
		YearTotal  float64 `json:"yearTotal"`
		Pending    float64 `json:"pending"`
	}
)

var ErrMissingFields = errors.New("all fields required")

// Validate checks field presence for creation. Only presence is checked:
// non-empty strings are accepted verbatim.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.ID) == "" ||
		strings.TrimSpace(c.Name) == "" ||
		strings.TrimSpace(c.Village) == "" ||
		strings.TrimSpace(c.Phone) == "" {
		return ErrMissingFields
	}
	return nil
}

// Validate checks field presence for creation. A zero price is rejected the
// same as a missing one; description is optional.
func (p Plan) Validate() error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" || p.Price == 0 {
		return ErrMissingFields
	}
	return nil
}

// ApplyDefaults fills status and mode when the caller left them empty.
// No range or enum validation happens here: month, year, amount, and
// free-form status/mode strings are stored as given.
func (p *Payment) ApplyDefaults() {
	if strings.TrimSpace(p.Status) == "" {
		p.Status = StatusUnpaid
	}
	if strings.TrimSpace(p.Mode) == "" {
		p.Mode = ModeCash
	}
}
