package ledger

import (
	"context"
	"strings"
	"time"

	"homespend/internal/core"
	"homespend/internal/store"
)

// CategoryRepository manages the category table. Category names are unique
// case-insensitively; the seeded default categories can never be renamed or
// deleted.
type CategoryRepository struct {
	store store.RowStore
	now   func() time.Time
}

func NewCategoryRepository(st store.RowStore) *CategoryRepository {
	return &CategoryRepository{store: st, now: time.Now}
}

func (r *CategoryRepository) List(ctx context.Context) ([]core.Category, error) {
	rows, err := r.store.ReadRows(ctx, store.CategoriesPartition)
	if err != nil {
		return nil, &core.StoreError{Op: "read categories", Err: err}
	}
	var out []core.Category
	for _, row := range rows {
		if c, ok := categoryFromRow(row); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Add creates a custom category. The name is trimmed; a name already taken
// in any casing is a conflict.
func (r *CategoryRepository) Add(ctx context.Context, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Category{}, core.ErrMissingCategory
	}

	existing, err := r.List(ctx)
	if err != nil {
		return core.Category{}, err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, name) {
			return core.Category{}, core.ErrConflict
		}
	}

	cat := core.Category{Name: name, IsDefault: false, CreatedAt: r.now().UTC()}
	if err := r.store.EnsurePartition(ctx, store.CategoriesPartition, CategoryHeader); err != nil {
		return core.Category{}, &core.StoreError{Op: "ensure categories", Err: err}
	}
	if err := r.store.AppendRow(ctx, store.CategoriesPartition, categoryToRow(cat)); err != nil {
		return core.Category{}, &core.StoreError{Op: "append category", Err: err}
	}
	return cat, nil
}

// Rename changes a custom category's name. Expenses already recorded under
// the old name are not touched; use reclassification for that.
func (r *CategoryRepository) Rename(ctx context.Context, oldName, newName string) (core.Category, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return core.Category{}, core.ErrMissingCategory
	}
	if oldName == newName {
		return core.Category{}, core.ErrSameCategory
	}

	rows, err := r.store.ReadRows(ctx, store.CategoriesPartition)
	if err != nil {
		return core.Category{}, &core.StoreError{Op: "read categories", Err: err}
	}

	index := -1
	var cat core.Category
	for i, row := range rows {
		c, ok := categoryFromRow(row)
		if !ok {
			continue
		}
		if strings.EqualFold(c.Name, oldName) {
			index, cat = i, c
			continue
		}
		if strings.EqualFold(c.Name, newName) {
			return core.Category{}, core.ErrConflict
		}
	}
	if index < 0 {
		return core.Category{}, core.ErrNotFound
	}
	if cat.IsDefault {
		return core.Category{}, core.ErrForbidden
	}

	cat.Name = newName
	if err := r.store.UpdateRow(ctx, store.CategoriesPartition, index, categoryToRow(cat)); err != nil {
		return core.Category{}, &core.StoreError{Op: "rename category", Err: err}
	}
	return cat, nil
}

// Delete removes a custom category. A category still referenced by any
// expense cannot be deleted.
func (r *CategoryRepository) Delete(ctx context.Context, name string, expenses *ExpenseRepository) error {
	name = strings.TrimSpace(name)

	rows, err := r.store.ReadRows(ctx, store.CategoriesPartition)
	if err != nil {
		return &core.StoreError{Op: "read categories", Err: err}
	}

	index := -1
	var cat core.Category
	for i, row := range rows {
		c, ok := categoryFromRow(row)
		if ok && strings.EqualFold(c.Name, name) {
			index, cat = i, c
			break
		}
	}
	if index < 0 {
		return core.ErrNotFound
	}
	if cat.IsDefault {
		return core.ErrForbidden
	}

	inUse, err := expenses.List(ctx, Filter{Category: cat.Name})
	if err != nil {
		return err
	}
	if len(inUse) > 0 {
		return core.ErrCategoryInUse
	}

	if err := r.store.ClearRow(ctx, store.CategoriesPartition, index); err != nil {
		return &core.StoreError{Op: "delete category", Err: err}
	}
	return nil
}
