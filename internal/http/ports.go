package http

import (
	"context"

	"github.com/pspupun/girish-cable-admin/internal/core"
)

// Narrow store interfaces implemented by storage.SQLiteRepository. Handlers
// hold these rather than the concrete repository so tests can swap in fakes.

type UserStore interface {
	UserByPhone(ctx context.Context, phone string) (core.User, error)
	UpdatePassword(ctx context.Context, phone, passwordHash string) error
}

type CustomerStore interface {
	ListCustomers(ctx context.Context) ([]core.Customer, error)
	CreateCustomer(ctx context.Context, c core.Customer) error
	UpdateCustomer(ctx context.Context, c core.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
}

type PlanStore interface {
	ListPlans(ctx context.Context) ([]core.Plan, error)
	CreatePlan(ctx context.Context, p core.Plan) error
	UpdatePlan(ctx context.Context, p core.Plan) error
	DeletePlan(ctx context.Context, id string) error
}

type PaymentStore interface {
	PaymentsByCustomer(ctx context.Context, customerID string) ([]core.Payment, error)
	CreatePayment(ctx context.Context, p core.Payment) error
	UpdatePayment(ctx context.Context, id int64, amount float64, status, mode, note string) error
	Summary(ctx context.Context, month, year int) (core.Summary, error)
}
