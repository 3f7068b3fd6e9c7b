package http

import (
	"net/http"
	"strconv"
	"time"

	"homespend/internal/core"
	"homespend/internal/ledger"
	applog "homespend/internal/log"
	"homespend/internal/metrics"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	list, err := s.expenses.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := s.decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	amount, err := core.ParseAmount(req.Amount.String())
	if err != nil {
		badRequest(w, "invalid amount: "+req.Amount.String())
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		badRequest(w, "invalid date, expected YYYY-MM-DD: "+req.Date)
		return
	}

	created, err := s.expenses.Add(r.Context(), core.Expense{
		Date:     date,
		Amount:   amount,
		Category: req.Category,
		Notes:    req.Notes,
	}, s.principal)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	metrics.ExpensesRecorded.Inc()
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Expense recorded",
		applog.NewFields().
			WithExpense(created.ID, created.Category, created.Amount.String()).
			ToSlice()...)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := s.decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	patch := core.ExpensePatch{Category: req.Category, Notes: req.Notes}
	if req.Amount != nil {
		amount, err := core.ParseAmount(req.Amount.String())
		if err != nil {
			badRequest(w, "invalid amount: "+req.Amount.String())
			return
		}
		patch.Amount = &amount
	}
	if patch.IsEmpty() {
		badRequest(w, "patch must set at least one of amount, category, notes")
		return
	}

	updated, err := s.expenses.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"lastModified": updated.LastModified.Format(time.RFC3339),
	})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// filterFromQuery parses list filters. The month parameter is 0-based
// (January is 0), matching the dashboard client; it requires year.
func filterFromQuery(r *http.Request) (ledger.Filter, error) {
	q := r.URL.Query()
	filter := ledger.Filter{Category: q.Get("category")}

	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return ledger.Filter{}, errBadQuery("year", v)
		}
		filter.Year = &year
	}
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 0 || m > 11 {
			return ledger.Filter{}, errBadQuery("month", v)
		}
		if filter.Year == nil {
			return ledger.Filter{}, errMonthWithoutYear
		}
		month := time.Month(m + 1)
		filter.Month = &month
	}
	return filter, nil
}
