package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payday/internal/core"
)

func TestMemoryStoreAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	items, err := s.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	ref, err := s.Append(ctx, core.Expense{
		Date:     core.NewDate(2024, 10, 10),
		Category: core.Food,
		Amount:   core.Money{Cents: 50000},
	})
	require.NoError(t, err)
	assert.Equal(t, "mem:1", ref)

	ref, err = s.Append(ctx, core.Expense{
		Date:     core.NewDate(2024, 9, 1),
		Category: core.Rent,
		Amount:   core.Money{Cents: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "mem:2", ref)

	items, err = s.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, core.Food, items[0].Category)
	assert.Equal(t, core.Rent, items[1].Category)

	// Mutating the returned slice must not leak into the store
	items[0].Amount = core.Money{Cents: 1}
	again, _ := s.ListExpenses(ctx)
	assert.Equal(t, int64(50000), again[0].Amount.Cents)
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.Append(context.Background(), core.Expense{
		Date:     core.NewDate(2024, 10, 10),
		Category: "Groceries",
		Amount:   core.Money{Cents: 1},
	})
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	_, err = s.Append(context.Background(), core.Expense{
		Date:     core.NewDate(2024, 10, 10),
		Category: core.Food,
		Amount:   core.Money{Cents: core.MaxAmountCents + 1},
	})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	items, _ := s.ListExpenses(context.Background())
	assert.Empty(t, items)
}

func TestMemoryStoreConcurrentAppend(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Append(context.Background(), core.Expense{
				Date:     core.NewDate(2024, 10, 10),
				Category: core.Other,
				Amount:   core.Money{Cents: 1},
			})
		}()
	}
	wg.Wait()
	items, _ := s.ListExpenses(context.Background())
	assert.Len(t, items, 50)
}
