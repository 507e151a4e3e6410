package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{".5", 50, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"100000000000", MaxAmountCents, true},
		{"100000000000.01", 0, false},
		{"90000000000000000", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{".", 0, false},
		{"", 0, false},
		{"١٢", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if assert.NoError(t, err, tc.in) {
				assert.Equal(t, tc.out, got, tc.in)
			}
		} else {
			assert.ErrorIs(t, err, ErrInvalidAmount, tc.in)
		}
	}
}

func TestMaxAmountTotalsStayPositive(t *testing.T) {
	// A year of daily maximum expenses still fits comfortably in int64.
	var total Money
	for i := 0; i < 366; i++ {
		total = total.Add(Money{Cents: MaxAmountCents})
	}
	assert.Positive(t, total.Cents)
	assert.Negative(t, Money{}.Sub(total).Cents)
}

func TestMoneyUnits(t *testing.T) {
	cases := map[int64]int64{0: 0, 49: 0, 50: 1, 123456: 1235, -150: -2}
	for cents, want := range cases {
		assert.Equal(t, want, Money{Cents: cents}.Units(), "%d cents", cents)
	}
}
