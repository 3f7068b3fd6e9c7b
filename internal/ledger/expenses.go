package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"homespend/internal/core"
	"homespend/internal/store"
)

// ExpenseRepository persists expenses in monthly partitions of a row store.
// Reads also cover the legacy unpartitioned table so that data predating the
// monthly layout stays visible.
type ExpenseRepository struct {
	store store.RowStore
	now   func() time.Time
}

func NewExpenseRepository(st store.RowStore) *ExpenseRepository {
	return &ExpenseRepository{store: st, now: time.Now}
}

// Filter narrows a listing. Month is 1-based; Month and Year only apply
// together.
type Filter struct {
	Category string
	Month    *time.Month
	Year     *int
}

// Add validates the expense, stamps identity and timestamps, and appends it
// to the partition of its calendar month.
func (r *ExpenseRepository) Add(ctx context.Context, e core.Expense, by core.Principal) (core.Expense, error) {
	e.Category = strings.TrimSpace(e.Category)
	e.Notes = strings.TrimSpace(e.Notes)
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	now := r.now().UTC()
	e.ID = uuid.NewString()
	e.AddedByID = by.ID
	e.AddedByName = by.Name
	e.AddedAt = now
	e.LastModified = now

	part := store.MonthPartition(e.Date.Year(), e.Date.Month())
	if err := r.store.EnsurePartition(ctx, part, ExpenseHeader); err != nil {
		return core.Expense{}, &core.StoreError{Op: "ensure partition", Err: err}
	}
	if err := r.store.AppendRow(ctx, part, expenseToRow(e)); err != nil {
		return core.Expense{}, &core.StoreError{Op: "append expense", Err: err}
	}
	return e, nil
}

// List returns expenses matching the filter, newest date first. The sort is
// stable, so expenses on the same date keep their insertion order.
func (r *ExpenseRepository) List(ctx context.Context, f Filter) ([]core.Expense, error) {
	parts, err := r.expensePartitions(ctx, f)
	if err != nil {
		return nil, err
	}

	var out []core.Expense
	for _, part := range parts {
		rows, err := r.store.ReadRows(ctx, part)
		if err != nil {
			return nil, &core.StoreError{Op: "read expenses", Err: err}
		}
		for _, row := range rows {
			e, ok := expenseFromRow(row)
			if !ok {
				continue
			}
			if matches(e, f) {
				out = append(out, e)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

// Update applies the patch to the expense with the given id and refreshes
// its last-modified timestamp.
func (r *ExpenseRepository) Update(ctx context.Context, id string, patch core.ExpensePatch) (core.Expense, error) {
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return core.Expense{}, core.ErrInvalidAmount
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return core.Expense{}, core.ErrMissingCategory
	}

	part, index, e, err := r.locate(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Category != nil {
		e.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Notes != nil {
		e.Notes = strings.TrimSpace(*patch.Notes)
	}
	e.LastModified = r.now().UTC()

	if err := r.store.UpdateRow(ctx, part, index, expenseToRow(e)); err != nil {
		return core.Expense{}, &core.StoreError{Op: "update expense", Err: err}
	}
	return e, nil
}

// Delete blanks the expense's row in place. Row positions of later expenses
// are untouched.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	part, index, _, err := r.locate(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.ClearRow(ctx, part, index); err != nil {
		return &core.StoreError{Op: "delete expense", Err: err}
	}
	return nil
}

// Reclassify moves every expense in category from to category to, returning
// how many were updated. It is not transactional: a failure partway through
// leaves earlier updates in place, and the count reflects them.
func (r *ExpenseRepository) Reclassify(ctx context.Context, from, to string) (int, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return 0, core.ErrMissingCategory
	}
	if strings.EqualFold(from, to) {
		return 0, core.ErrSameCategory
	}

	parts, err := r.expensePartitions(ctx, Filter{})
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, part := range parts {
		rows, err := r.store.ReadRows(ctx, part)
		if err != nil {
			return updated, &core.StoreError{Op: "read expenses", Err: err}
		}
		for i, row := range rows {
			e, ok := expenseFromRow(row)
			if !ok || !strings.EqualFold(e.Category, from) {
				continue
			}
			e.Category = to
			e.LastModified = r.now().UTC()
			if err := r.store.UpdateRow(ctx, part, i, expenseToRow(e)); err != nil {
				return updated, &core.StoreError{Op: "reclassify expense", Err: err}
			}
			updated++
		}
	}
	return updated, nil
}

// locate finds the partition and row index holding the expense with the
// given id, scanning every expense partition including the legacy table.
// Ids are unique, so scan order does not matter.
func (r *ExpenseRepository) locate(ctx context.Context, id string) (string, int, core.Expense, error) {
	parts, err := r.expensePartitions(ctx, Filter{})
	if err != nil {
		return "", 0, core.Expense{}, err
	}
	for _, part := range parts {
		rows, err := r.store.ReadRows(ctx, part)
		if err != nil {
			return "", 0, core.Expense{}, &core.StoreError{Op: "read expenses", Err: err}
		}
		for i, row := range rows {
			e, ok := expenseFromRow(row)
			if ok && e.ID == id {
				return part, i, e, nil
			}
		}
	}
	return "", 0, core.Expense{}, core.ErrNotFound
}

// expensePartitions lists the partitions a filtered read has to cover. A
// month+year filter narrows to that single month, but the legacy table is
// always included since its rows span arbitrary dates.
func (r *ExpenseRepository) expensePartitions(ctx context.Context, f Filter) ([]string, error) {
	names, err := r.store.Partitions(ctx)
	if err != nil {
		return nil, &core.StoreError{Op: "list partitions", Err: err}
	}

	var out []string
	for _, name := range names {
		switch {
		case name == store.LegacyExpensePartition:
			out = append(out, name)
		case store.IsMonthPartition(name):
			if f.Month != nil && f.Year != nil &&
				name != store.MonthPartition(*f.Year, *f.Month) {
				continue
			}
			out = append(out, name)
		}
	}
	return out, nil
}

func matches(e core.Expense, f Filter) bool {
	if f.Category != "" && !strings.EqualFold(e.Category, f.Category) {
		return false
	}
	if f.Month != nil && e.Date.Month() != *f.Month {
		return false
	}
	if f.Year != nil && e.Date.Year() != *f.Year {
		return false
	}
	return true
}
