// Package cycle computes salary cycles and the expense totals that fall in
// them.
//
// A cycle starts on the 28th of a month. When the 28th is a Saturday or a
// Sunday the start moves back to the Friday before it. Cycles are half-open
// intervals [Start, End).
package cycle

import (
	"fmt"
	"sort"
	"time"

	"payday/internal/core"
)

// PayDay is the nominal day of the month a cycle starts on.
const PayDay = 28

// FixedWindowDays is the cycle length used by the FixedWindow rule.
const FixedWindowDays = 31

// EndRule selects how the end of a cycle is derived from its start.
type EndRule int

const (
	// NextStart ends a cycle where the following month's cycle starts, so
	// consecutive cycles cover every day exactly once.
	NextStart EndRule = iota
	// FixedWindow ends a cycle FixedWindowDays after its start. Depending on
	// month length and weekend shifts this leaves gaps or overlaps between
	// consecutive cycles.
	FixedWindow
)

func (r EndRule) String() string {
	switch r {
	case NextStart:
		return "next-start"
	case FixedWindow:
		return "fixed-31"
	default:
		return fmt.Sprintf("EndRule(%d)", int(r))
	}
}

// ParseEndRule accepts the names produced by EndRule.String.
func ParseEndRule(s string) (EndRule, error) {
	switch s {
	case "next-start", "":
		return NextStart, nil
	case "fixed-31":
		return FixedWindow, nil
	default:
		return NextStart, fmt.Errorf("unknown cycle end rule %q", s)
	}
}

// Cycle is the half-open date interval [Start, End).
type Cycle struct {
	Start core.Date
	End   core.Date
}

// Contains reports whether Start <= d < End.
func (c Cycle) Contains(d core.Date) bool {
	return !d.Before(c.Start) && d.Before(c.End)
}

// Calculator derives cycles using a configurable end rule. The zero value
// uses NextStart.
type Calculator struct {
	End EndRule
}

// Default is the calculator used by the package-level functions.
var Default = Calculator{End: NextStart}

// StartFor returns the cycle start for the given calendar month: the 28th,
// or the Friday before it when the 28th falls on a weekend. Months outside
// 1-12 are normalised the way time.Date does.
func StartFor(year, month int) core.Date {
	d := core.NewDate(year, month, PayDay)
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDays(-1)
	case time.Sunday:
		return d.AddDays(-2)
	}
	return d
}

// For returns the cycle containing d under the Default calculator.
func For(d core.Date) Cycle {
	return Default.For(d)
}

// Summarize aggregates records for the cycle containing ref under the
// Default calculator.
func Summarize(records []core.Expense, ref core.Date) Summary {
	return Default.Summarize(records, ref)
}

// For returns the cycle whose start is the latest start on or before d.
func (c Calculator) For(d core.Date) Cycle {
	year, month := d.Year(), d.Month()
	start := StartFor(year, month)
	if d.Before(start) {
		year, month = previousMonth(year, month)
		start = StartFor(year, month)
	}

	var end core.Date
	switch c.End {
	case FixedWindow:
		end = start.AddDays(FixedWindowDays)
	default:
		ny, nm := nextMonth(year, month)
		end = StartFor(ny, nm)
	}
	return Cycle{Start: start, End: end}
}

// Summarize keeps the records dated inside the cycle containing ref and
// totals them overall and per category.
func (c Calculator) Summarize(records []core.Expense, ref core.Date) Summary {
	s := Summary{
		Cycle:      c.For(ref),
		ByCategory: make(map[core.Category]core.Money),
	}
	for _, r := range records {
		if !s.Cycle.Contains(r.Date) {
			continue
		}
		s.Count++
		s.Total = s.Total.Add(r.Amount)
		s.ByCategory[r.Category] = s.ByCategory[r.Category].Add(r.Amount)
	}
	return s
}

func previousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

func nextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// Summary is the aggregate of one cycle's expenses.
type Summary struct {
	Cycle Cycle
	Total core.Money
	// ByCategory only holds categories with at least one record.
	ByCategory map[core.Category]core.Money
	Count      int
}

// Remaining is salary minus the cycle total. It goes negative when
// spending exceeds the salary.
func (s Summary) Remaining(salary core.Money) core.Money {
	return salary.Sub(s.Total)
}

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category core.Category
	Amount   core.Money
}

// Rows returns the breakdown in the fixed category order. Categories
// outside the known set sort last, by name.
func (s Summary) Rows() []CategoryAmount {
	rows := make([]CategoryAmount, 0, len(s.ByCategory))
	for c, m := range s.ByCategory {
		rows = append(rows, CategoryAmount{Category: c, Amount: m})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Category.Index(), rows[j].Category.Index()
		if a < 0 {
			a = len(core.Categories())
		}
		if b < 0 {
			b = len(core.Categories())
		}
		if a != b {
			return a < b
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}
