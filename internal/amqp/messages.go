package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"payday/internal/core"
	"payday/internal/cycle"
)

// ExpenseRecordedMessage announces a newly recorded expense together with
// the salary cycle it was booked into.
type ExpenseRecordedMessage struct {
	ID          string    `json:"id"`
	Ref         string    `json:"ref"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	CycleStart  string    `json:"cycle_start"`
	CycleEnd    string    `json:"cycle_end"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseRecordedMessage creates a message with a fresh id
func NewExpenseRecordedMessage(ref string, e core.Expense, c cycle.Cycle) *ExpenseRecordedMessage {
	return &ExpenseRecordedMessage{
		ID:          uuid.NewString(),
		Ref:         ref,
		Date:        e.Date.String(),
		Category:    string(e.Category),
		AmountCents: e.Amount.Cents,
		CycleStart:  c.Start.String(),
		CycleEnd:    c.End.String(),
		Timestamp:   time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Expense rebuilds the recorded expense, validating every field.
func (m *ExpenseRecordedMessage) Expense() (core.Expense, error) {
	date, err := core.ParseDate(m.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("message %s: %w", m.ID, err)
	}
	e := core.Expense{
		Date:     date,
		Category: core.Category(m.Category),
		Amount:   core.Money{Cents: m.AmountCents},
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("message %s: %w", m.ID, err)
	}
	return e, nil
}

// ExpenseRecordedMessageFromJSON creates a message from JSON bytes
func ExpenseRecordedMessageFromJSON(data []byte) (*ExpenseRecordedMessage, error) {
	var msg ExpenseRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("message without id")
	}
	return &msg, nil
}
