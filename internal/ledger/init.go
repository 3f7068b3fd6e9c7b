package ledger

import (
	"context"
	"time"

	"homespend/internal/core"
	"homespend/internal/store"
)

// Init prepares a fresh store: it seeds the legacy expense table and the
// category table with their headers, and adds any default category that is
// not present yet. Safe to call on a store that is already initialized.
func Init(ctx context.Context, st store.RowStore) error {
	if err := st.EnsurePartition(ctx, store.LegacyExpensePartition, ExpenseHeader); err != nil {
		return &core.StoreError{Op: "ensure expenses", Err: err}
	}
	if err := st.EnsurePartition(ctx, store.CategoriesPartition, CategoryHeader); err != nil {
		return &core.StoreError{Op: "ensure categories", Err: err}
	}

	rows, err := st.ReadRows(ctx, store.CategoriesPartition)
	if err != nil {
		return &core.StoreError{Op: "read categories", Err: err}
	}
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if c, ok := categoryFromRow(row); ok {
			seen[c.Name] = true
		}
	}

	now := time.Now().UTC()
	for _, name := range core.DefaultCategories {
		if seen[name] {
			continue
		}
		cat := core.Category{Name: name, IsDefault: true, CreatedAt: now}
		if err := st.AppendRow(ctx, store.CategoriesPartition, categoryToRow(cat)); err != nil {
			return &core.StoreError{Op: "seed category", Err: err}
		}
	}
	return nil
}
