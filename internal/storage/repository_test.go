package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pspupun/girish-cable-admin/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	repo.Close()

	// Opening the same file again re-runs migrations against an
	// initialized schema and must not fail.
	repo, err = NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	repo.Close()
}

func TestEnsureAdminIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.EnsureAdmin(ctx, "9238205678", "hash-one"); err != nil {
		t.Fatalf("first EnsureAdmin: %v", err)
	}
	if err := repo.EnsureAdmin(ctx, "9238205678", "hash-two"); err != nil {
		t.Fatalf("second EnsureAdmin should treat the duplicate as success: %v", err)
	}

	// The original hash wins: seeding never overwrites.
	u, err := repo.UserByPhone(ctx, "9238205678")
	if err != nil {
		t.Fatalf("UserByPhone: %v", err)
	}
	if u.PasswordHash != "hash-one" {
		t.Errorf("seeding overwrote existing credential: %q", u.PasswordHash)
	}
}

func TestUserByPhoneNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.UserByPhone(context.Background(), "0000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.EnsureAdmin(ctx, "9238205678", "old-hash"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := repo.UpdatePassword(ctx, "9238205678", "new-hash"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	u, err := repo.UserByPhone(ctx, "9238205678")
	if err != nil {
		t.Fatalf("UserByPhone: %v", err)
	}
	if u.PasswordHash != "new-hash" {
		t.Errorf("hash not updated, got %q", u.PasswordHash)
	}

	// Unknown phone affects zero rows but is still not an error.
	if err := repo.UpdatePassword(ctx, "1234567890", "x"); err != nil {
		t.Errorf("UpdatePassword on unknown phone: %v", err)
	}
}

func TestCustomerCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := core.Customer{ID: "C1", Name: "Asha", Village: "Balugaon", Phone: "9000000001"}
	if err := repo.CreateCustomer(ctx, c); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	// Duplicate id collides regardless of the other fields.
	dup := core.Customer{ID: "C1", Name: "Other", Village: "Elsewhere", Phone: "9000000002"}
	if err := repo.CreateCustomer(ctx, dup); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	c.Village = "Banapur"
	if err := repo.UpdateCustomer(ctx, c); err != nil {
		t.Fatalf("UpdateCustomer: %v", err)
	}

	customers, err := repo.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	if len(customers) != 1 || customers[0].Village != "Banapur" {
		t.Fatalf("unexpected customers: %+v", customers)
	}

	// Updating a nonexistent id affects zero rows and succeeds.
	if err := repo.UpdateCustomer(ctx, core.Customer{ID: "ghost", Name: "x", Village: "y", Phone: "z"}); err != nil {
		t.Errorf("UpdateCustomer on unknown id: %v", err)
	}
}

func TestDeleteCustomerCascadesPayments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateCustomer(ctx, core.Customer{ID: "C1", Name: "Asha", Village: "Balugaon", Phone: "9000000001"}); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if err := repo.CreateCustomer(ctx, core.Customer{ID: "C2", Name: "Bikash", Village: "Banapur", Phone: "9000000002"}); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	for _, p := range []core.Payment{
		{CustomerID: "C1", Month: 1, Year: 2025, Amount: 300, Status: "paid", Mode: "cash"},
		{CustomerID: "C1", Month: 2, Year: 2025, Amount: 300, Status: "unpaid", Mode: "cash"},
		{CustomerID: "C2", Month: 1, Year: 2025, Amount: 250, Status: "paid", Mode: "cash"},
	} {
		if err := repo.CreatePayment(ctx, p); err != nil {
			t.Fatalf("CreatePayment: %v", err)
		}
	}

	if err := repo.DeleteCustomer(ctx, "C1"); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}

	gone, err := repo.PaymentsByCustomer(ctx, "C1")
	if err != nil {
		t.Fatalf("PaymentsByCustomer: %v", err)
	}
	if len(gone) != 0 {
		t.Errorf("cascade left %d orphaned payments", len(gone))
	}

	kept, err := repo.PaymentsByCustomer(ctx, "C2")
	if err != nil {
		t.Fatalf("PaymentsByCustomer: %v", err)
	}
	if len(kept) != 1 {
		t.Errorf("unrelated customer's payments touched: %+v", kept)
	}

	customers, err := repo.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	if len(customers) != 1 || customers[0].ID != "C2" {
		t.Errorf("unexpected customers after delete: %+v", customers)
	}
}

func TestPlanCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := core.Plan{ID: "P1", Name: "Basic", Price: 250, Description: "SD channels"}
	if err := repo.CreatePlan(ctx, p); err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if err := repo.CreatePlan(ctx, p); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	p.Price = 300
	if err := repo.UpdatePlan(ctx, p); err != nil {
		t.Fatalf("UpdatePlan: %v", err)
	}

	plans, err := repo.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans: %v", err)
	}
	if len(plans) != 1 || plans[0].Price != 300 {
		t.Fatalf("unexpected plans: %+v", plans)
	}

	if err := repo.DeletePlan(ctx, "P1"); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}
	plans, err = repo.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans: %v", err)
	}
	if len(plans) != 0 {
		t.Fatalf("plan not deleted: %+v", plans)
	}
}

func TestPaymentsOrderedByYearThenMonth(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Inserted out of order on purpose.
	for _, p := range []core.Payment{
		{CustomerID: "C1", Month: 3, Year: 2025, Amount: 300, Status: "paid", Mode: "cash"},
		{CustomerID: "C1", Month: 11, Year: 2024, Amount: 300, Status: "paid", Mode: "cash"},
		{CustomerID: "C1", Month: 1, Year: 2025, Amount: 300, Status: "unpaid", Mode: "cash"},
	} {
		if err := repo.CreatePayment(ctx, p); err != nil {
			t.Fatalf("CreatePayment: %v", err)
		}
	}

	payments, err := repo.PaymentsByCustomer(ctx, "C1")
	if err != nil {
		t.Fatalf("PaymentsByCustomer: %v", err)
	}
	if len(payments) != 3 {
		t.Fatalf("expected 3 payments, got %d", len(payments))
	}

	want := []struct{ year, month int }{{2024, 11}, {2025, 1}, {2025, 3}}
	for i, w := range want {
		if payments[i].Year != w.year || payments[i].Month != w.month {
			t.Errorf("payment[%d] = %d-%d, want %d-%d",
				i, payments[i].Year, payments[i].Month, w.year, w.month)
		}
	}
}

func TestUpdatePaymentMutableFieldsOnly(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreatePayment(ctx, core.Payment{
		CustomerID: "C1", Month: 4, Year: 2025, Amount: 300, Status: "unpaid", Mode: "cash",
	}); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	payments, err := repo.PaymentsByCustomer(ctx, "C1")
	if err != nil {
		t.Fatalf("PaymentsByCustomer: %v", err)
	}
	id := payments[0].ID

	if err := repo.UpdatePayment(ctx, id, 350, "paid", "upi", "late fee waived"); err != nil {
		t.Fatalf("UpdatePayment: %v", err)
	}

	payments, err = repo.PaymentsByCustomer(ctx, "C1")
	if err != nil {
		t.Fatalf("PaymentsByCustomer: %v", err)
	}
	got := payments[0]
	if got.Amount != 350 || got.Status != "paid" || got.Mode != "upi" || got.Note != "late fee waived" {
		t.Errorf("mutable fields not updated: %+v", got)
	}
	if got.Month != 4 || got.Year != 2025 || got.CustomerID != "C1" {
		t.Errorf("immutable fields changed: %+v", got)
	}

	// Nonexistent id affects zero rows and succeeds.
	if err := repo.UpdatePayment(ctx, 9999, 1, "paid", "cash", ""); err != nil {
		t.Errorf("UpdatePayment on unknown id: %v", err)
	}
}

func TestSummary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Empty store: all sums coalesce to zero.
	s, err := repo.Summary(ctx, 6, 2025)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.MonthTotal != 0 || s.YearTotal != 0 || s.Pending != 0 {
		t.Fatalf("empty store summary should be zero: %+v", s)
	}

	for _, p := range []core.Payment{
		{CustomerID: "C1", Month: 6, Year: 2025, Amount: 500, Status: "paid", Mode: "cash"},
		{CustomerID: "C1", Month: 5, Year: 2025, Amount: 300, Status: "paid", Mode: "cash"},
		{CustomerID: "C2", Month: 6, Year: 2024, Amount: 200, Status: "paid", Mode: "cash"},
		{CustomerID: "C2", Month: 1, Year: 2023, Amount: 150, Status: "unpaid", Mode: "cash"},
		{CustomerID: "C1", Month: 6, Year: 2025, Amount: 400, Status: "unpaid", Mode: "cash"},
	} {
		if err := repo.CreatePayment(ctx, p); err != nil {
			t.Fatalf("CreatePayment: %v", err)
		}
	}

	s, err = repo.Summary(ctx, 6, 2025)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	// monthTotal filters on month alone, so the paid June 2024 row counts too.
	if s.MonthTotal != 700 {
		t.Errorf("MonthTotal = %v, want 700", s.MonthTotal)
	}
	if s.YearTotal != 800 {
		t.Errorf("YearTotal = %v, want 800", s.YearTotal)
	}
	// Pending is all-time unpaid, unbounded by month or year.
	if s.Pending != 550 {
		t.Errorf("Pending = %v, want 550", s.Pending)
	}
}
