package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payday/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository("test_" + strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRepositoryAppendAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	items, err := repo.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	ref, err := repo.Append(ctx, core.Expense{Date: core.NewDate(2024, 10, 10), Category: core.Food, Amount: core.Money{Cents: 50000}})
	require.NoError(t, err)
	assert.Equal(t, "1", ref)

	ref, err = repo.Append(ctx, core.Expense{Date: core.NewDate(2024, 9, 27), Category: core.Bills, Amount: core.Money{Cents: 0}})
	require.NoError(t, err)
	assert.Equal(t, "2", ref)

	items, err = repo.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2024-10-10", items[0].Date.String())
	assert.Equal(t, core.Food, items[0].Category)
	assert.Equal(t, int64(50000), items[0].Amount.Cents)
	assert.Equal(t, core.Bills, items[1].Category)
}

func TestSQLiteRepositoryRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Append(context.Background(), core.Expense{Date: core.NewDate(2024, 10, 10), Category: core.Food, Amount: core.Money{Cents: -5}})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestSQLiteRepositoryIsolatedPerName(t *testing.T) {
	a := newTestRepo(t)
	b, err := NewSQLiteRepository("other_" + t.Name())
	require.NoError(t, err)
	defer b.Close()

	_, err = a.Append(context.Background(), core.Expense{Date: core.NewDate(2024, 10, 10), Category: core.Rent, Amount: core.Money{Cents: 1}})
	require.NoError(t, err)

	items, err := b.ListExpenses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, a.Ping(context.Background()))
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	assert.NoError(t, RunMigrations(repo.dsn))
}

func TestMemoryDSN(t *testing.T) {
	assert.Equal(t, "file:a%20b?mode=memory&cache=shared&_pragma=busy_timeout(5000)", MemoryDSN("a b"))
}
