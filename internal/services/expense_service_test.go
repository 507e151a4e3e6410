package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payday/internal/amqp"
	"payday/internal/core"
	"payday/internal/cycle"
	"payday/internal/ledger/memory"
)

type fakePublisher struct {
	published []*amqp.ExpenseRecordedMessage
	err       error
	closed    bool
}

func (f *fakePublisher) PublishExpenseRecorded(_ context.Context, msg *amqp.ExpenseRecordedMessage) error {
	f.published = append(f.published, msg)
	return f.err
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func expense(y, m, d int, c core.Category, cents int64) core.Expense {
	return core.Expense{Date: core.NewDate(y, m, d), Category: c, Amount: core.Money{Cents: cents}}
}

func TestRecordPublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(memory.New(), pub, cycle.Default)

	ref, err := svc.Record(context.Background(), expense(2025, 1, 5, core.Food, 1250))
	require.NoError(t, err)
	assert.Equal(t, "mem:1", ref)

	require.Len(t, pub.published, 1)
	msg := pub.published[0]
	assert.Equal(t, ref, msg.Ref)
	assert.Equal(t, "2024-12-27", msg.CycleStart)
	assert.Equal(t, "2025-01-28", msg.CycleEnd)
	assert.Equal(t, int64(1250), msg.AmountCents)
}

func TestRecordSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	store := memory.New()
	svc := NewExpenseService(store, pub, cycle.Default)

	_, err := svc.Record(context.Background(), expense(2025, 1, 5, core.Food, 1250))
	require.NoError(t, err)

	items, err := store.ListExpenses(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRecordRejectsInvalid(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(memory.New(), pub, cycle.Default)

	_, err := svc.Record(context.Background(), expense(2025, 1, 5, "Gadgets", 100))
	assert.ErrorIs(t, err, core.ErrInvalidCategory)
	_, err = svc.Record(context.Background(), expense(2025, 1, 5, core.Food, -1))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	assert.Empty(t, pub.published)
}

func TestRecordWithoutPublisher(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil, cycle.Default)
	_, err := svc.Record(context.Background(), expense(2025, 1, 5, core.Rent, 100))
	require.NoError(t, err)
	assert.NoError(t, svc.Close())
}

func TestListNewestFirstStable(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil, cycle.Default)
	ctx := context.Background()
	for _, e := range []core.Expense{
		expense(2024, 10, 1, core.Food, 1),
		expense(2024, 10, 20, core.Travel, 2),
		expense(2024, 10, 1, core.Bills, 3),
		expense(2024, 11, 2, core.Rent, 4),
	} {
		_, err := svc.Record(ctx, e)
		require.NoError(t, err)
	}

	items, err := svc.List(ctx)
	require.NoError(t, err)
	var got []int64
	for _, e := range items {
		got = append(got, e.Amount.Cents)
	}
	assert.Equal(t, []int64{4, 2, 1, 3}, got)
}

func TestSummaryUsesCalculator(t *testing.T) {
	ctx := context.Background()
	records := []core.Expense{
		expense(2024, 10, 10, core.Food, 50000),
		expense(2024, 10, 29, core.Travel, 100000),
		expense(2024, 11, 5, core.Rent, 200000),
	}
	for _, calc := range []cycle.Calculator{{End: cycle.NextStart}, {End: cycle.FixedWindow}} {
		svc := NewExpenseService(memory.New(), nil, calc)
		for _, e := range records {
			_, err := svc.Record(ctx, e)
			require.NoError(t, err)
		}
		s, err := svc.Summary(ctx, core.NewDate(2024, 10, 15))
		require.NoError(t, err)
		assert.Equal(t, "2024-09-27", s.Cycle.Start.String())
		assert.Equal(t, int64(50000), s.Total.Cents)
		assert.Equal(t, map[core.Category]core.Money{core.Food: {Cents: 50000}}, s.ByCategory)
		assert.Equal(t, calc, svc.Calculator())
	}
}

func TestCloseClosesPublisher(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(memory.New(), pub, cycle.Default)
	require.NoError(t, svc.Close())
	assert.True(t, pub.closed)
}
