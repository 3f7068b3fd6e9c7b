// Package ledger implements the expense and category repositories on top of
// the row store, plus monthly reporting over them.
package ledger

import (
	"strconv"
	"time"

	"homespend/internal/core"
	"homespend/internal/store"
)

// Column layouts of the two partition kinds. These match the spreadsheet the
// family has been using, so the service can run against existing data.
var (
	ExpenseHeader = store.Row{
		"ID", "Date", "Amount", "Category", "Notes",
		"AddedBy", "AddedByName", "AddedAt", "LastModified",
	}
	CategoryHeader = store.Row{"Category", "IsDefault", "CreatedAt"}
)

func expenseToRow(e core.Expense) store.Row {
	return store.Row{
		e.ID,
		e.Date.String(),
		e.Amount.String(),
		e.Category,
		e.Notes,
		e.AddedByID,
		e.AddedByName,
		e.AddedAt.Format(time.RFC3339),
		e.LastModified.Format(time.RFC3339),
	}
}

// expenseFromRow decodes a stored row. ok is false for blank (deleted) rows
// and rows too mangled to represent an expense; such rows are skipped on
// read, never repaired.
func expenseFromRow(r store.Row) (core.Expense, bool) {
	if len(r) < 4 || r[0] == "" {
		return core.Expense{}, false
	}
	date, err := core.ParseDate(cell(r, 1))
	if err != nil {
		return core.Expense{}, false
	}
	amount, err := core.ParseAmount(cell(r, 2))
	if err != nil {
		return core.Expense{}, false
	}
	e := core.Expense{
		ID:          r[0],
		Date:        date,
		Amount:      amount,
		Category:    cell(r, 3),
		Notes:       cell(r, 4),
		AddedByID:   cell(r, 5),
		AddedByName: cell(r, 6),
	}
	e.AddedAt, _ = time.Parse(time.RFC3339, cell(r, 7))
	e.LastModified, _ = time.Parse(time.RFC3339, cell(r, 8))
	return e, true
}

func categoryToRow(c core.Category) store.Row {
	return store.Row{
		c.Name,
		strconv.FormatBool(c.IsDefault),
		c.CreatedAt.Format(time.RFC3339),
	}
}

func categoryFromRow(r store.Row) (core.Category, bool) {
	if len(r) == 0 || r[0] == "" {
		return core.Category{}, false
	}
	c := core.Category{Name: r[0]}
	c.IsDefault, _ = strconv.ParseBool(cell(r, 1))
	c.CreatedAt, _ = time.Parse(time.RFC3339, cell(r, 2))
	return c, true
}

// cell reads a column that may be missing on short rows.
func cell(r store.Row, i int) string {
	if i < len(r) {
		return r[i]
	}
	return ""
}
