package ledger

import (
	"context"
	"testing"
	"time"

	"homespend/internal/core"
)

func TestMonthlySummary(t *testing.T) {
	repo, _ := newTestRepo(t)
	reporter := NewReporter(repo)
	ctx := context.Background()

	addExpense(t, repo, core.NewDate(2025, 2, 3), "100", "Food")
	addExpense(t, repo, core.NewDate(2025, 2, 10), "50", "Fuel")
	addExpense(t, repo, core.NewDate(2025, 2, 12), "25", "Food")
	addExpense(t, repo, core.NewDate(2025, 1, 20), "100", "Food")

	s, err := reporter.MonthlySummary(ctx, 2025, time.February)
	if err != nil {
		t.Fatalf("MonthlySummary() error = %v", err)
	}

	if s.CurrentMonth.Total.String() != "175" {
		t.Errorf("CurrentMonth.Total = %s, want 175", s.CurrentMonth.Total)
	}
	if s.CurrentMonth.Count != 3 {
		t.Errorf("CurrentMonth.Count = %d, want 3", s.CurrentMonth.Count)
	}
	if got := s.CurrentMonth.CategoryTotals["Food"]; got.String() != "125" {
		t.Errorf("CategoryTotals[Food] = %s, want 125", got)
	}
	if s.PreviousMonth.Total.String() != "100" || s.PreviousMonth.Count != 1 {
		t.Errorf("PreviousMonth = %s/%d, want 100/1", s.PreviousMonth.Total, s.PreviousMonth.Count)
	}
	if s.Change.String() != "75" {
		t.Errorf("Change = %s, want 75", s.Change)
	}
	if s.PercentChange.String() != "75" {
		t.Errorf("PercentChange = %s, want 75", s.PercentChange)
	}

	top := s.CurrentMonth.TopCategories
	if len(top) != 2 {
		t.Fatalf("TopCategories has %d entries, want 2", len(top))
	}
	if top[0].Category != "Food" || top[1].Category != "Fuel" {
		t.Errorf("TopCategories order = %s,%s, want Food,Fuel", top[0].Category, top[1].Category)
	}
}

func TestMonthlySummaryZeroPreviousMonth(t *testing.T) {
	repo, _ := newTestRepo(t)
	reporter := NewReporter(repo)

	addExpense(t, repo, core.NewDate(2025, 1, 10), "100", "Food")

	s, err := reporter.MonthlySummary(context.Background(), 2025, time.January)
	if err != nil {
		t.Fatalf("MonthlySummary() error = %v", err)
	}
	if s.CurrentMonth.Total.String() != "100" || s.CurrentMonth.Count != 1 {
		t.Errorf("CurrentMonth = %s/%d, want 100/1", s.CurrentMonth.Total, s.CurrentMonth.Count)
	}
	if !s.PreviousMonth.Total.IsZero() {
		t.Errorf("PreviousMonth.Total = %s, want 0", s.PreviousMonth.Total)
	}
	if !s.PercentChange.IsZero() {
		t.Errorf("PercentChange = %s, want exactly 0 with no previous data", s.PercentChange)
	}
}

func TestMonthlySummaryJanuaryRollsToPreviousDecember(t *testing.T) {
	repo, _ := newTestRepo(t)
	reporter := NewReporter(repo)

	addExpense(t, repo, core.NewDate(2024, 12, 31), "200", "Food")
	addExpense(t, repo, core.NewDate(2025, 1, 1), "100", "Food")

	s, err := reporter.MonthlySummary(context.Background(), 2025, time.January)
	if err != nil {
		t.Fatalf("MonthlySummary() error = %v", err)
	}
	if s.PreviousMonth.Total.String() != "200" {
		t.Errorf("PreviousMonth.Total = %s, want 200", s.PreviousMonth.Total)
	}
	if s.Change.String() != "-100" {
		t.Errorf("Change = %s, want -100", s.Change)
	}
	if s.PercentChange.String() != "-50" {
		t.Errorf("PercentChange = %s, want -50", s.PercentChange)
	}
}

func TestTopCategoriesRanking(t *testing.T) {
	repo, _ := newTestRepo(t)
	reporter := NewReporter(repo)

	// Six categories; only five make the ranking. Power ties Internet and
	// wins by name.
	for _, e := range []struct {
		amount, category string
	}{
		{"60", "Food"},
		{"50", "Fuel"},
		{"40", "Medicine"},
		{"30", "Utilities"},
		{"20", "Power"},
		{"20", "Internet"},
	} {
		addExpense(t, repo, core.NewDate(2025, 4, 5), e.amount, e.category)
	}

	s, err := reporter.MonthlySummary(context.Background(), 2025, time.April)
	if err != nil {
		t.Fatalf("MonthlySummary() error = %v", err)
	}
	top := s.CurrentMonth.TopCategories
	if len(top) != 5 {
		t.Fatalf("TopCategories has %d entries, want 5", len(top))
	}
	want := []string{"Food", "Fuel", "Medicine", "Utilities", "Internet"}
	for i, name := range want {
		if top[i].Category != name {
			t.Errorf("top[%d] = %s, want %s", i, top[i].Category, name)
		}
	}
}

func TestMonthlyReport(t *testing.T) {
	repo, _ := newTestRepo(t)
	reporter := NewReporter(repo)

	addExpense(t, repo, core.NewDate(2025, 3, 3), "80", "Food")
	addExpense(t, repo, core.NewDate(2025, 3, 9), "20", "Fuel")
	addExpense(t, repo, core.NewDate(2025, 2, 1), "50", "Food")

	rep, err := reporter.MonthlyReport(context.Background(), 2025, time.March)
	if err != nil {
		t.Fatalf("MonthlyReport() error = %v", err)
	}
	if rep.Month != 3 || rep.Year != 2025 {
		t.Errorf("Month/Year = %d/%d, want 3/2025", rep.Month, rep.Year)
	}
	if rep.TotalSpent.String() != "100" {
		t.Errorf("TotalSpent = %s, want 100", rep.TotalSpent)
	}
	if rep.ExpenseCount != 2 {
		t.Errorf("ExpenseCount = %d, want 2", rep.ExpenseCount)
	}
	if rep.PrevMonthTotal.String() != "50" {
		t.Errorf("PrevMonthTotal = %s, want 50", rep.PrevMonthTotal)
	}
	if rep.ChangeFromPrevMonth.String() != "50" {
		t.Errorf("ChangeFromPrevMonth = %s, want 50", rep.ChangeFromPrevMonth)
	}
	if rep.PercentChange.String() != "100" {
		t.Errorf("PercentChange = %s, want 100", rep.PercentChange)
	}

	empty, err := reporter.MonthlyReport(context.Background(), 2030, time.June)
	if err != nil {
		t.Fatalf("MonthlyReport(empty month) error = %v", err)
	}
	if empty.CategoryTotals == nil {
		t.Error("CategoryTotals is nil for empty month, want empty map")
	}
}
