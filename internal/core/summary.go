package core

import "github.com/shopspring/decimal"

// CategoryTotal is one entry of a top-categories ranking.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthTotals aggregates one calendar month of expenses.
type MonthTotals struct {
	Total          decimal.Decimal            `json:"total"`
	Count          int                        `json:"count"`
	CategoryTotals map[string]decimal.Decimal `json:"categoryTotals,omitempty"`
	TopCategories  []CategoryTotal            `json:"topCategories,omitempty"`
}

// Summary compares the current month against the preceding one.
// PercentChange is defined as exactly zero when the previous total is zero.
type Summary struct {
	CurrentMonth  MonthTotals     `json:"currentMonth"`
	PreviousMonth MonthTotals     `json:"previousMonth"`
	Change        decimal.Decimal `json:"change"`
	PercentChange decimal.Decimal `json:"percentChange"`
}

// MonthlyReport is the charting superset of Summary for a requested month.
type MonthlyReport struct {
	Month               int                        `json:"month"`
	Year                int                        `json:"year"`
	TotalSpent          decimal.Decimal            `json:"totalSpent"`
	CategoryTotals      map[string]decimal.Decimal `json:"categoryTotals"`
	ChangeFromPrevMonth decimal.Decimal            `json:"changeFromPrevMonth"`
	PercentChange       decimal.Decimal            `json:"percentChange"`
	ExpenseCount        int                        `json:"expenseCount"`
	PrevMonthTotal      decimal.Decimal            `json:"prevMonthTotal"`
}
