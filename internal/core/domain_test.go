package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateValidate(t *testing.T) {
	assert.NoError(t, NewDate(2025, 1, 1).Validate())
	assert.NoError(t, NewDate(2025, 12, 31).Validate())
	assert.ErrorIs(t, Date{Time: time.Time{}}.Validate(), ErrInvalidDate)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-09-27 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(NewDate(2024, 9, 27)), "unexpected date %s", d)

	for _, in := range []string{"", "27/09/2024", "2024-13-01", "2024-02-30"} {
		_, err := ParseDate(in)
		assert.ErrorIs(t, err, ErrInvalidDate, in)
	}
}

func TestDateOfDropsClock(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	got := DateOf(time.Date(2025, 1, 5, 23, 59, 0, 0, loc))
	assert.Equal(t, "2025-01-05", got.String())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" food ")
	require.NoError(t, err)
	assert.Equal(t, Food, c)

	_, err = ParseCategory("Groceries")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	require.Len(t, Categories(), 6)
	assert.Equal(t, Other, Categories()[5])
}

func TestMoneyValidate(t *testing.T) {
	assert.NoError(t, Money{}.Validate())
	assert.NoError(t, Money{Cents: MaxAmountCents}.Validate())
	assert.ErrorIs(t, Money{Cents: -1}.Validate(), ErrInvalidAmount)
	assert.ErrorIs(t, Money{Cents: MaxAmountCents + 1}.Validate(), ErrInvalidAmount)
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:     NewDate(2025, 1, 1),
		Category: Rent,
		Amount:   Money{Cents: 0},
	}
	assert.NoError(t, good.Validate())

	bads := []Expense{
		{Date: Date{}, Category: Food, Amount: Money{Cents: 1}},
		{Date: NewDate(2025, 1, 1), Category: "food", Amount: Money{Cents: 1}},
		{Date: NewDate(2025, 1, 1), Category: "", Amount: Money{Cents: 1}},
		{Date: NewDate(2025, 1, 1), Category: Food, Amount: Money{Cents: -1}},
		{Date: NewDate(2025, 1, 1), Category: Food, Amount: Money{Cents: MaxAmountCents + 1}},
	}
	for i, e := range bads {
		assert.Error(t, e.Validate(), "case %d", i)
	}
}
