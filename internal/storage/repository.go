package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"payday/internal/core"
	"payday/internal/ledger"
	"payday/internal/log"

	_ "modernc.org/sqlite"
)

var _ ledger.Ledger = (*SQLiteRepository)(nil)

// SQLiteRepository keeps the session's expenses in a named in-memory SQLite
// database. The data lives as long as the repository stays open.
type SQLiteRepository struct {
	db  *sql.DB
	dsn string
}

// MemoryDSN returns the DSN of a shared-cache in-memory database.
func MemoryDSN(name string) string {
	return "file:" + url.PathEscape(name) + "?mode=memory&cache=shared&_pragma=busy_timeout(5000)"
}

func NewSQLiteRepository(name string) (*SQLiteRepository, error) {
	dsn := MemoryDSN(name)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection that never expires keeps the in-memory database alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, dsn: dsn}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database connection is usable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Append implements ledger.ExpenseWriter
func (r *SQLiteRepository) Append(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (expense_date, category, amount_cents) VALUES (?, ?, ?)`,
		e.Date.String(), string(e.Category), e.Amount.Cents)
	if err != nil {
		return "", fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("read expense id: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		append(log.NewFields().
			WithComponent(log.ComponentStorage).
			WithOperation(log.OpCreate).
			WithExpense(e.Date.String(), string(e.Category), e.Amount.Cents).
			ToSlice(), log.FieldRef, id)...)

	return strconv.FormatInt(id, 10), nil
}

// ListExpenses implements ledger.ExpenseLister
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT expense_date, category, amount_cents FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			date     string
			category string
			cents    int64
		)
		if err := rows.Scan(&date, &category, &cents); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		t, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", date, err)
		}
		expenses = append(expenses, core.Expense{
			Date:     core.DateOf(t),
			Category: core.Category(category),
			Amount:   core.Money{Cents: cents},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}
