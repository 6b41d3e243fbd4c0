package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pspupun/girish-cable-admin/internal/core"

	_ "modernc.org/sqlite"
)

var (
	// ErrDuplicateID is returned when an insert collides with an existing
	// primary key (caller-supplied customer/plan id or user phone).
	ErrDuplicateID = errors.New("id already exists")

	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
)

// SQLiteRepository owns the single database handle shared by all request
// handlers. SQLite serializes writes; no coordination happens above it.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// isUniqueViolation detects a primary-key collision from the driver error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}

// --- users ---

// EnsureAdmin seeds the operator credential. A unique violation means the
// admin already exists and is not an error; the schema stays untouched.
func (r *SQLiteRepository) EnsureAdmin(ctx context.Context, phone, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (phone, password) VALUES (?, ?)`, phone, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			slog.DebugContext(ctx, "Admin already exists", "phone", phone)
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}

	slog.InfoContext(ctx, "Default admin created", "phone", phone)
	return nil
}

func (r *SQLiteRepository) UserByPhone(ctx context.Context, phone string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT phone, password FROM users WHERE phone = ?`, phone).
		Scan(&u.Phone, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// UpdatePassword overwrites the stored hash. Zero rows affected is not an
// error: the endpoint reports success whether or not the phone exists.
func (r *SQLiteRepository) UpdatePassword(ctx context.Context, phone, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password = ? WHERE phone = ?`, passwordHash, phone)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// --- customers ---

func (r *SQLiteRepository) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, village, phone FROM customers`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []core.Customer{}
	for rows.Next() {
		var c core.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Village, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *SQLiteRepository) CreateCustomer(ctx context.Context, c core.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, village, phone) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Village, c.Phone)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	slog.InfoContext(ctx, "Customer created", "customer_id", c.ID, "village", c.Village)
	return nil
}

func (r *SQLiteRepository) UpdateCustomer(ctx context.Context, c core.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, village = ?, phone = ? WHERE id = ?`,
		c.Name, c.Village, c.Phone, c.ID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// DeleteCustomer removes the customer row and every payment referencing it.
// Both deletes run in one transaction so a crash cannot leave orphaned
// payments behind.
func (r *SQLiteRepository) DeleteCustomer(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete customer: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE customer_id = ?`, id); err != nil {
		return fmt.Errorf("delete customer payments: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete customer: %w", err)
	}

	slog.InfoContext(ctx, "Customer deleted with payments", "customer_id", id)
	return nil
}

// --- plans ---

func (r *SQLiteRepository) ListPlans(ctx context.Context) ([]core.Plan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price, description FROM plans`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := []core.Plan{}
	for rows.Next() {
		var (
			p    core.Plan
			desc sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &desc); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		p.Description = desc.String
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *SQLiteRepository) CreatePlan(ctx context.Context, p core.Plan) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO plans (id, name, price, description) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Price, p.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert plan: %w", err)
	}

	slog.InfoContext(ctx, "Plan created", "plan_id", p.ID, "price", p.Price)
	return nil
}

func (r *SQLiteRepository) UpdatePlan(ctx context.Context, p core.Plan) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE plans SET name = ?, price = ?, description = ? WHERE id = ?`,
		p.Name, p.Price, p.Description, p.ID)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeletePlan(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// --- payments ---

// PaymentsByCustomer lists a customer's payments in billing order: year
// ascending, then month. Ties within the same month keep store order.
func (r *SQLiteRepository) PaymentsByCustomer(ctx context.Context, customerID string) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, customer_id, month, year, amount, status, mode, note
		 FROM payments WHERE customer_id = ? ORDER BY year, month`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := []core.Payment{}
	for rows.Next() {
		var (
			p    core.Payment
			note sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Month, &p.Year, &p.Amount, &p.Status, &p.Mode, &note); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.Note = note.String
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *SQLiteRepository) CreatePayment(ctx context.Context, p core.Payment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (customer_id, month, year, amount, status, mode, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.CustomerID, p.Month, p.Year, p.Amount, p.Status, p.Mode, p.Note)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	slog.InfoContext(ctx, "Payment recorded",
		"customer_id", p.CustomerID, "month", p.Month, "year", p.Year,
		"amount", p.Amount, "status", p.Status)
	return nil
}

// UpdatePayment mutates the mutable subset of a payment record. The month,
// year, and customer are immutable after creation. A nonexistent id affects
// zero rows and still succeeds.
func (r *SQLiteRepository) UpdatePayment(ctx context.Context, id int64, amount float64, status, mode, note string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payments SET amount = ?, status = ?, mode = ?, note = ? WHERE id = ?`,
		amount, status, mode, note, id)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

// --- summary ---

// Summary computes the paid totals for the given month and year plus the
// all-time unpaid total. Callers pass the server's current month/year.
func (r *SQLiteRepository) Summary(ctx context.Context, month, year int) (core.Summary, error) {
	var s core.Summary

	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE month = ? AND status = 'paid'`, month).
		Scan(&s.MonthTotal)
	if err != nil {
		return core.Summary{}, fmt.Errorf("sum month total: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE year = ? AND status = 'paid'`, year).
		Scan(&s.YearTotal)
	if err != nil {
		return core.Summary{}, fmt.Errorf("sum year total: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'unpaid'`).
		Scan(&s.Pending)
	if err != nil {
		return core.Summary{}, fmt.Errorf("sum pending: %w", err)
	}

	return s, nil
}
