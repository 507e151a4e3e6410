// Package ledger defines the ports for the session-owned expense collection.
package ledger

import (
	"context"

	"payday/internal/core"
)

// Ports for outbound adapters.
type (
	ExpenseWriter interface {
		Append(ctx context.Context, e core.Expense) (ref string, err error)
	}

	// ExpenseLister returns every recorded expense in insertion order.
	ExpenseLister interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
	}

	Ledger interface {
		ExpenseWriter
		ExpenseLister
	}
)
