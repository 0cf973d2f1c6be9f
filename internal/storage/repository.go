// Package storage is the sole owner of expense persistence. It stores
// records in SQLite and applies filtering, ordering and aggregation
// server-side so callers never post-process result sets.
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
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"expensed/internal/core"
)

// ErrNotFound signals that no expense exists for the requested id.
var ErrNotFound = errors.New("expense not found")

// tsLayout is RFC 3339 with fixed nine-digit fractional seconds so stored
// timestamps sort correctly as text.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository is a SQLite-backed store for expense records.
type Repository struct {
	db *sql.DB
}

// Open creates the database file if needed, runs pending migrations and
// returns a ready repository. The caller owns the handle and must Close it.
func Open(dbPath string) (*Repository, error) {
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

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the backing store is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Create assigns identity and timestamps, persists the record and returns
// the stored form.
func (r *Repository) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, title, description, amount_cents, category, spent_on_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Description, e.Amount.Cents, string(e.Category),
		e.SpentOnDate.UTC().Format(time.RFC3339), now.Format(tsLayout), now.Format(tsLayout),
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"title", e.Title,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)

	return e, nil
}

// sortColumns maps the allow-listed sort fields to their columns. The
// query engine has already validated the field; an unknown value here is
// a programming error and falls back to the default ordering.
var sortColumns = map[core.SortField]string{
	core.SortByAmount:      "amount_cents",
	core.SortBySpentOnDate: "spent_on_date",
	core.SortByCreatedAt:   "created_at",
}

// List returns all records matching the optional category filter in the
// requested order. No filter and no sort means all records, newest first.
func (r *Repository) List(ctx context.Context, opts core.ListOptions) ([]core.Expense, error) {
	query := `SELECT id, title, description, amount_cents, category, spent_on_date, created_at, updated_at FROM expenses`
	var args []any

	if opts.Category != nil {
		query += ` WHERE category = ?`
		args = append(args, string(*opts.Category))
	}

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if opts.SortBy == "" {
		direction = "DESC"
	} else if opts.Order == core.OrderDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]core.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// Get returns the record with the given id or ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, amount_cents, category, spent_on_date, created_at, updated_at
		FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// Update applies only the supplied fields, refreshes updated_at and returns
// the full updated record. An empty patch still refreshes updated_at.
func (r *Repository) Update(ctx context.Context, id string, patch core.ExpensePatch) (core.Expense, error) {
	set := []string{"updated_at = ?"}
	args := []any{time.Now().UTC().Format(tsLayout)}

	if patch.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Amount != nil {
		set = append(set, "amount_cents = ?")
		args = append(args, patch.Amount.Cents)
	}
	if patch.Category != nil {
		set = append(set, "category = ?")
		args = append(args, string(*patch.Category))
	}
	if patch.SpentOnDate != nil {
		set = append(set, "spent_on_date = ?")
		args = append(args, patch.SpentOnDate.UTC().Format(time.RFC3339))
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE expenses SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense rows affected: %w", err)
	}
	if affected == 0 {
		return core.Expense{}, ErrNotFound
	}

	return r.Get(ctx, id)
}

// Delete removes the record permanently. ErrNotFound when nothing matched.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// SumByCategory sums amounts grouped by category across all records.
// Categories with no expenses produce no row.
func (r *Repository) SumByCategory(ctx context.Context) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, SUM(amount_cents) AS total_cents
		FROM expenses
		GROUP BY category
		ORDER BY total_cents DESC`)
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	defer rows.Close()

	totals := make([]core.CategoryTotal, 0)
	for rows.Next() {
		var (
			category string
			cents    int64
		)
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, core.CategoryTotal{
			Category:   core.Category(category),
			TotalSpent: core.Money{Cents: cents},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return totals, nil
}

// RecordAuditEvent appends one row to the expense change audit trail.
// Used by the worker; the API server never writes here.
func (r *Repository) RecordAuditEvent(ctx context.Context, expenseID, action string, occurredAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expense_events (expense_id, action, occurred_at, recorded_at)
		VALUES (?, ?, ?, ?)`,
		expenseID, action, occurredAt.UTC().Format(tsLayout), time.Now().UTC().Format(tsLayout),
	)
	if err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

// CountAuditEvents returns the size of the audit trail.
func (r *Repository) CountAuditEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expense_events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (core.Expense, error) {
	var (
		e         core.Expense
		category  string
		spentOn   string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Amount.Cents, &category, &spentOn, &createdAt, &updatedAt); err != nil {
		return core.Expense{}, err
	}
	e.Category = core.Category(category)

	spentTime, err := time.Parse(time.RFC3339, spentOn)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse spent_on_date %q: %w", spentOn, err)
	}
	e.SpentOnDate = core.Date{Time: spentTime}

	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return core.Expense{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return core.Expense{}, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}
	return e, nil
}
