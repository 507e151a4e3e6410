package http

import (
	"net/http"

	"payday/internal/core"
	"payday/internal/log"
)

type expenseRow struct {
	Date, Category, Amount string
}

type expensesTableView struct {
	Rows  []expenseRow
	Count int
}

// handleCreateExpense records one expense from the add expense form.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	if r.Method != http.MethodPost {
		MethodNotAllowedError(http.MethodPost).Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		logger.ErrorContext(ctx, "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	e, err := parseExpenseForm(r.PostForm, s.today())
	if err != nil {
		logger.InfoContext(ctx, "Rejected expense", "error", err)
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	ref, err := s.svc.Record(ctx, e)
	if err != nil {
		if isValidationError(err) {
			UnprocessableEntityError(validationMessage(err)).Write(w)
			return
		}
		logger.LogError(ctx, "Expense append error", err, log.OpCreate,
			log.NewFields().WithExpense(e.Date.String(), string(e.Category), e.Amount.Cents))
		InternalServerError("Could not save the expense").Write(w)
		return
	}

	logger.InfoContext(ctx, "Expense recorded",
		log.NewFields().
			WithExpense(e.Date.String(), string(e.Category), e.Amount.Cents).
			WithOperation(log.OpCreate).
			ToSlice()...)

	if r.Header.Get("HX-Request") != "true" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	SuccessResponse("Added "+formatAmount(s.printer, s.settings.Currency, e.Amount)+
		" for "+string(e.Category)+" on "+formatDate(e.Date)+" (#"+ref+")").
		TriggerExpenseCreated(e.Date.String()).
		Write(w)
}

// handleExpensesTable renders every recorded expense, newest first.
func (s *Server) handleExpensesTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		MethodNotAllowedError(http.MethodGet).Write(w)
		return
	}

	view, err := s.expensesTable(r)
	if err != nil {
		log.FromContext(ctx).LogError(ctx, "List expenses error", err, log.OpList, nil)
		InternalServerError("Could not load expenses").Write(w)
		return
	}
	s.render(w, r, "expenses_table.html", view)
}

func (s *Server) expensesTable(r *http.Request) (expensesTableView, error) {
	items, err := s.svc.List(r.Context())
	if err != nil {
		return expensesTableView{}, err
	}
	view := expensesTableView{Count: len(items)}
	for _, e := range items {
		view.Rows = append(view.Rows, expenseRow{
			Date:     formatDate(e.Date),
			Category: string(e.Category),
			Amount:   formatAmount(s.printer, s.settings.Currency, e.Amount),
		})
	}
	return view, nil
}

// render executes a template, falling back to a plain error partial.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", "template", name)
		InternalServerError("templates not loaded").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).LogError(r.Context(), "Template execution failed", err, log.OpRender, nil)
	}
}

// categoryOptions lists the categories for the add expense form.
func categoryOptions() []string {
	cats := core.Categories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}
