package http

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"payday/internal/core"
)

// parseExpenseForm reads the date, category and amount fields of the add
// expense form. An empty date means today.
func parseExpenseForm(form url.Values, today core.Date) (core.Expense, error) {
	date := today
	if v := sanitizeInput(form.Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Expense{}, fmt.Errorf("invalid date %q: %w", v, core.ErrInvalidDate)
		}
		date = d
	}

	category, err := core.ParseCategory(sanitizeInput(form.Get("category")))
	if err != nil {
		return core.Expense{}, err
	}

	amount := strings.TrimSpace(form.Get("amount"))
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("invalid amount %q: %w", amount, core.ErrInvalidAmount)
	}

	e := core.Expense{Date: date, Category: category, Amount: core.Money{Cents: cents}}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

var errInvalidSalary = errors.New("salary must be a non-negative amount")

// parseSalary reads the salary query parameter, falling back to def when
// it is absent.
func parseSalary(query url.Values, def core.Money) (core.Money, error) {
	v := strings.TrimSpace(query.Get("salary"))
	if v == "" {
		return def, nil
	}
	cents, err := core.ParseDecimalToCents(v)
	if err != nil {
		return core.Money{}, errInvalidSalary
	}
	return core.Money{Cents: cents}, nil
}

// validationMessage maps domain validation errors to user facing text.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return "Please enter a valid date (YYYY-MM-DD)"
	case errors.Is(err, core.ErrInvalidCategory):
		return "Please choose one of the listed categories"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Please enter a valid, non-negative amount"
	case errors.Is(err, errInvalidSalary):
		return "Please enter a valid, non-negative salary"
	default:
		return "Invalid input"
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidCategory) ||
		errors.Is(err, core.ErrInvalidAmount)
}
