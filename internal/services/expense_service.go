package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"payday/internal/amqp"
	"payday/internal/core"
	"payday/internal/cycle"
	"payday/internal/ledger"
	"payday/internal/log"
)

// Publisher announces recorded expenses. *amqp.Client implements it.
type Publisher interface {
	PublishExpenseRecorded(ctx context.Context, msg *amqp.ExpenseRecordedMessage) error
	Close() error
}

// ExpenseService orchestrates expense operations across the ledger and AMQP
type ExpenseService struct {
	ledger     ledger.Ledger
	publisher  Publisher
	calculator cycle.Calculator
}

// NewExpenseService wires a ledger with an optional publisher. A nil
// publisher disables event publishing.
func NewExpenseService(l ledger.Ledger, publisher Publisher, calculator cycle.Calculator) *ExpenseService {
	return &ExpenseService{
		ledger:     l,
		publisher:  publisher,
		calculator: calculator,
	}
}

// Record validates and stores an expense, then publishes an event
func (s *ExpenseService) Record(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	ref, err := s.ledger.Append(ctx, e)
	if err != nil {
		return "", fmt.Errorf("save expense: %w", err)
	}

	if s.publisher != nil {
		msg := amqp.NewExpenseRecordedMessage(ref, e, s.calculator.For(e.Date))
		if err := s.publisher.PublishExpenseRecorded(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish expense recorded message",
				append(log.NewFields().
					WithComponent(log.ComponentExpense).
					WithOperation(log.OpPublish).
					WithError(err).
					ToSlice(), log.FieldRef, ref)...)
			// Don't fail the request - expense is saved locally
		}
	}

	return ref, nil
}

// List returns every recorded expense, newest date first. Records sharing a
// date keep their insertion order.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	items, err := s.ledger.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items, nil
}

// Summary aggregates the cycle containing ref.
func (s *ExpenseService) Summary(ctx context.Context, ref core.Date) (cycle.Summary, error) {
	items, err := s.ledger.ListExpenses(ctx)
	if err != nil {
		return cycle.Summary{}, fmt.Errorf("list expenses: %w", err)
	}
	return s.calculator.Summarize(items, ref), nil
}

// Calculator exposes the cycle rules the service summarizes with.
func (s *ExpenseService) Calculator() cycle.Calculator {
	return s.calculator
}

// Close closes the publisher connection
func (s *ExpenseService) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("close expense service: amqp: %w", err)
		}
	}
	return nil
}
