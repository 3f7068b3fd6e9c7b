package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	applog "homespend/internal/log"
	"homespend/internal/metrics"
)

var errMonthWithoutYear = errors.New("month filter requires year")

func errBadQuery(param, value string) error {
	return fmt.Errorf("invalid %s parameter: %q", param, value)
}

func (s *Server) handleReclassify(w http.ResponseWriter, r *http.Request) {
	var req reclassifyRequest
	if err := s.decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	count, err := s.expenses.Reclassify(r.Context(), req.OldCategory, req.NewCategory)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	metrics.ExpensesReclassified.Add(float64(count))
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Expenses reclassified",
		"from", req.OldCategory,
		"to", req.NewCategory,
		"count", count)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"updatedCount": count,
	})
}

// handleSummary reports the current month against the previous one. month
// (0-based) and year override the clock, mainly for the dashboard's month
// picker.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthYearFromQuery(r, true)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	summary, err := s.reporter.MonthlySummary(r.Context(), year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthYearFromQuery(r, false)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	report, err := s.reporter.MonthlyReport(r.Context(), year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// monthYearFromQuery reads the 0-based month and year parameters. With
// optional set, missing parameters default to the current month.
func monthYearFromQuery(r *http.Request, optional bool) (int, time.Month, error) {
	q := r.URL.Query()
	monthRaw, yearRaw := q.Get("month"), q.Get("year")

	if monthRaw == "" && yearRaw == "" {
		if !optional {
			return 0, 0, errors.New("month and year parameters are required")
		}
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	if monthRaw == "" || yearRaw == "" {
		return 0, 0, errors.New("month and year parameters go together")
	}

	m, err := strconv.Atoi(monthRaw)
	if err != nil || m < 0 || m > 11 {
		return 0, 0, errBadQuery("month", monthRaw)
	}
	year, err := strconv.Atoi(yearRaw)
	if err != nil {
		return 0, 0, errBadQuery("year", yearRaw)
	}
	return year, time.Month(m + 1), nil
}
