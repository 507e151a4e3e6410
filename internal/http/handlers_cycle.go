package http

import (
	"encoding/json"
	"net/http"

	"payday/internal/core"
	"payday/internal/cycle"
	"payday/internal/log"
)

type categoryBar struct {
	Name, Amount string
	Width        int
}

type cycleSummaryView struct {
	Start, LastDay string
	Salary         string
	SalaryInput    string
	Total          string
	Remaining      string
	// Delta is the total shown as a negative change against the salary.
	Delta     string
	Overspent bool
	Count     int
	Bars      []categoryBar
}

type indexView struct {
	Today      string
	Categories []string
	Currency   string
	Summary    cycleSummaryView
	Expenses   expensesTableView
}

// cycleResponse is the JSON shape of /api/cycle. Dates are YYYY-MM-DD and
// end is exclusive.
type cycleResponse struct {
	Start          string           `json:"start"`
	End            string           `json:"end"`
	TotalCents     int64            `json:"total_cents"`
	RemainingCents int64            `json:"remaining_cents"`
	SalaryCents    int64            `json:"salary_cents"`
	Count          int              `json:"count"`
	ByCategory     map[string]int64 `json:"by_category"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		MethodNotAllowedError("GET, HEAD").Write(w)
		return
	}

	salary, err := parseSalary(r.URL.Query(), s.settings.DefaultSalary)
	if err != nil {
		salary = s.settings.DefaultSalary
	}

	sum, err := s.svc.Summary(ctx, s.today())
	if err != nil {
		log.FromContext(ctx).LogError(ctx, "Cycle summary error", err, log.OpSummary, nil)
		InternalServerError("Could not load the current cycle").Write(w)
		return
	}
	table, err := s.expensesTable(r)
	if err != nil {
		log.FromContext(ctx).LogError(ctx, "List expenses error", err, log.OpList, nil)
		InternalServerError("Could not load expenses").Write(w)
		return
	}

	s.render(w, r, "index.html", indexView{
		Today:      s.today().String(),
		Categories: categoryOptions(),
		Currency:   s.settings.Currency,
		Summary:    s.summaryView(sum, salary),
		Expenses:   table,
	})
}

// handleCycleSummary renders the current cycle partial for the given salary.
func (s *Server) handleCycleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		MethodNotAllowedError(http.MethodGet).Write(w)
		return
	}

	salary, err := parseSalary(r.URL.Query(), s.settings.DefaultSalary)
	if err != nil {
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	sum, err := s.svc.Summary(ctx, s.today())
	if err != nil {
		log.FromContext(ctx).LogError(ctx, "Cycle summary error", err, log.OpSummary, nil)
		InternalServerError("Could not load the current cycle").Write(w)
		return
	}
	log.FromContext(ctx).DebugContext(ctx, "Cycle summary",
		log.NewFields().WithCycle(sum.Cycle.Start.String(), sum.Cycle.End.String()).ToSlice()...)

	s.render(w, r, "cycle_summary.html", s.summaryView(sum, salary))
}

// handleAPICycle returns the current cycle summary as JSON.
func (s *Server) handleAPICycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		MethodNotAllowedError(http.MethodGet).Write(w)
		return
	}

	salary, err := parseSalary(r.URL.Query(), s.settings.DefaultSalary)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	sum, err := s.svc.Summary(ctx, s.today())
	if err != nil {
		log.FromContext(ctx).LogError(ctx, "Cycle summary error", err, log.OpSummary, nil)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load the current cycle"})
		return
	}

	resp := cycleResponse{
		Start:          sum.Cycle.Start.String(),
		End:            sum.Cycle.End.String(),
		TotalCents:     sum.Total.Cents,
		RemainingCents: sum.Remaining(salary).Cents,
		SalaryCents:    salary.Cents,
		Count:          sum.Count,
		ByCategory:     make(map[string]int64, len(sum.ByCategory)),
	}
	for c, m := range sum.ByCategory {
		resp.ByCategory[string(c)] = m.Cents
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) summaryView(sum cycle.Summary, salary core.Money) cycleSummaryView {
	currency := s.settings.Currency
	remaining := sum.Remaining(salary)
	view := cycleSummaryView{
		Start:       formatDate(sum.Cycle.Start),
		LastDay:     formatDate(sum.Cycle.End.AddDays(-1)),
		Salary:      formatAmount(s.printer, currency, salary),
		SalaryInput: formatDecimal(salary),
		Total:       formatAmount(s.printer, currency, sum.Total),
		Remaining:   formatAmount(s.printer, currency, remaining),
		Overspent:   remaining.Cents < 0,
		Count:       sum.Count,
	}
	if sum.Total.Cents > 0 {
		view.Delta = "-" + formatAmount(s.printer, currency, sum.Total)
	}

	rows := sum.Rows()
	var max int64
	for _, row := range rows {
		if row.Amount.Cents > max {
			max = row.Amount.Cents
		}
	}
	for _, row := range rows {
		view.Bars = append(view.Bars, categoryBar{
			Name:   string(row.Category),
			Amount: formatAmount(s.printer, currency, row.Amount),
			Width:  barWidth(row.Amount.Cents, max),
		})
	}
	return view
}
