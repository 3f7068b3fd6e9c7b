package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"homespend/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Reporter computes monthly aggregates over the expense repository. Every
// call re-reads the store, so reports always reflect the latest writes.
type Reporter struct {
	expenses *ExpenseRepository
}

func NewReporter(expenses *ExpenseRepository) *Reporter {
	return &Reporter{expenses: expenses}
}

// MonthlySummary compares the given month against the one before it. The
// current month carries per-category totals and a top-five ranking; the
// previous month only total and count.
func (r *Reporter) MonthlySummary(ctx context.Context, year int, month time.Month) (core.Summary, error) {
	cur, err := r.monthTotals(ctx, year, month)
	if err != nil {
		return core.Summary{}, err
	}
	prevYear, prevMonth := previousMonth(year, month)
	prev, err := r.monthTotals(ctx, prevYear, prevMonth)
	if err != nil {
		return core.Summary{}, err
	}

	cur.TopCategories = topCategories(cur.CategoryTotals, 5)
	change := cur.Total.Sub(prev.Total)

	return core.Summary{
		CurrentMonth: cur,
		PreviousMonth: core.MonthTotals{
			Total: prev.Total,
			Count: prev.Count,
		},
		Change:        change,
		PercentChange: percentChange(change, prev.Total),
	}, nil
}

// MonthlyReport is the charting view of a single month.
func (r *Reporter) MonthlyReport(ctx context.Context, year int, month time.Month) (core.MonthlyReport, error) {
	cur, err := r.monthTotals(ctx, year, month)
	if err != nil {
		return core.MonthlyReport{}, err
	}
	prevYear, prevMonth := previousMonth(year, month)
	prev, err := r.monthTotals(ctx, prevYear, prevMonth)
	if err != nil {
		return core.MonthlyReport{}, err
	}

	change := cur.Total.Sub(prev.Total)
	if cur.CategoryTotals == nil {
		cur.CategoryTotals = map[string]decimal.Decimal{}
	}
	return core.MonthlyReport{
		Month:               int(month),
		Year:                year,
		TotalSpent:          cur.Total,
		CategoryTotals:      cur.CategoryTotals,
		ChangeFromPrevMonth: change,
		PercentChange:       percentChange(change, prev.Total),
		ExpenseCount:        cur.Count,
		PrevMonthTotal:      prev.Total,
	}, nil
}

func (r *Reporter) monthTotals(ctx context.Context, year int, month time.Month) (core.MonthTotals, error) {
	list, err := r.expenses.List(ctx, Filter{Month: &month, Year: &year})
	if err != nil {
		return core.MonthTotals{}, err
	}

	totals := core.MonthTotals{Count: len(list)}
	if len(list) > 0 {
		totals.CategoryTotals = make(map[string]decimal.Decimal)
	}
	for _, e := range list {
		totals.Total = totals.Total.Add(e.Amount)
		totals.CategoryTotals[e.Category] = totals.CategoryTotals[e.Category].Add(e.Amount)
	}
	return totals, nil
}

// percentChange is defined as exactly zero when there is no previous total
// to compare against.
func percentChange(change, prevTotal decimal.Decimal) decimal.Decimal {
	if prevTotal.IsZero() {
		return decimal.Zero
	}
	return change.Div(prevTotal).Mul(hundred).Round(2)
}

func previousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// topCategories ranks category totals by amount descending, names ascending
// on ties, keeping at most n entries.
func topCategories(totals map[string]decimal.Decimal, n int) []core.CategoryTotal {
	if len(totals) == 0 {
		return nil
	}
	ranked := make([]core.CategoryTotal, 0, len(totals))
	for name, amount := range totals {
		ranked = append(ranked, core.CategoryTotal{Category: name, Amount: amount})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Amount.Equal(ranked[j].Amount) {
			return ranked[i].Amount.GreaterThan(ranked[j].Amount)
		}
		return ranked[i].Category < ranked[j].Category
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
