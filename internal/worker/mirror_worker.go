package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"payday/internal/amqp"
	"payday/internal/core"
	"payday/internal/log"
)

// RowWriter appends one mirrored expense. *google.Client implements it.
type RowWriter interface {
	AppendExpense(ctx context.Context, e core.Expense, cycleStart core.Date) (string, error)
}

// MirrorWorker copies recorded expenses into an external sheet
type MirrorWorker struct {
	writer RowWriter

	mu   sync.Mutex
	done map[string]struct{}
}

func NewMirrorWorker(writer RowWriter) *MirrorWorker {
	return &MirrorWorker{
		writer: writer,
		done:   make(map[string]struct{}),
	}
}

// HandleExpenseRecorded appends the expense carried by msg. Message ids
// already mirrored by this process are skipped, so redeliveries after a
// lost ack do not duplicate rows.
func (w *MirrorWorker) HandleExpenseRecorded(ctx context.Context, msg *amqp.ExpenseRecordedMessage) error {
	if w.seen(msg.ID) {
		slog.InfoContext(ctx, "Skipping already mirrored message", append(mirrorFields(nil), "id", msg.ID)...)
		return nil
	}

	slog.InfoContext(ctx, "Processing expense recorded message",
		append(mirrorFields(nil),
			"id", msg.ID,
			log.FieldRef, msg.Ref,
			log.FieldCycleStart, msg.CycleStart)...)

	e, err := msg.Expense()
	if err != nil {
		// A bad payload will not improve on retry
		slog.ErrorContext(ctx, "Dropping invalid expense message", append(mirrorFields(err), "id", msg.ID)...)
		return nil
	}
	cycleStart, err := core.ParseDate(msg.CycleStart)
	if err != nil {
		slog.ErrorContext(ctx, "Dropping message with invalid cycle start", append(mirrorFields(err), "id", msg.ID)...)
		return nil
	}

	ref, err := w.writer.AppendExpense(ctx, e, cycleStart)
	if err != nil {
		return fmt.Errorf("mirror expense %s: %w", msg.ID, err)
	}
	w.markDone(msg.ID)

	slog.InfoContext(ctx, "Mirrored expense",
		append(mirrorFields(nil),
			"id", msg.ID,
			"sheet_ref", ref)...)
	return nil
}

func mirrorFields(err error) []any {
	return log.NewFields().
		WithComponent(log.ComponentWorker).
		WithOperation(log.OpMirror).
		WithError(err).
		ToSlice()
}

func (w *MirrorWorker) seen(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.done[id]
	return ok
}

func (w *MirrorWorker) markDone(id string) {
	w.mu.Lock()
	w.done[id] = struct{}{}
	w.mu.Unlock()
}
