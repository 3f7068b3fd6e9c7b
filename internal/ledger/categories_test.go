package ledger

import (
	"context"
	"errors"
	"testing"

	"homespend/internal/core"
	"homespend/internal/store/memory"
)

func newTestCategories(t *testing.T) (*CategoryRepository, *ExpenseRepository) {
	t.Helper()
	st := memory.New()
	if err := Init(context.Background(), st); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return NewCategoryRepository(st), NewExpenseRepository(st)
}

func TestInitSeedsDefaults(t *testing.T) {
	cats, _ := newTestCategories(t)

	list, err := cats.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != len(core.DefaultCategories) {
		t.Fatalf("List() returned %d categories, want %d", len(list), len(core.DefaultCategories))
	}
	for i, name := range core.DefaultCategories {
		if list[i].Name != name {
			t.Errorf("list[%d].Name = %s, want %s", i, list[i].Name, name)
		}
		if !list[i].IsDefault {
			t.Errorf("%s not marked as default", name)
		}
	}
}

func TestInitIsIdempotent(t *testing.T) {
	cats, _ := newTestCategories(t)
	ctx := context.Background()

	if _, err := cats.Add(ctx, "Travel"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := Init(ctx, cats.store); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}

	list, err := cats.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != len(core.DefaultCategories)+1 {
		t.Fatalf("List() returned %d categories, want %d", len(list), len(core.DefaultCategories)+1)
	}
}

func TestAddCategory(t *testing.T) {
	cats, _ := newTestCategories(t)
	ctx := context.Background()

	c, err := cats.Add(ctx, "  Travel  ")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if c.Name != "Travel" {
		t.Errorf("Name = %q, want Travel", c.Name)
	}
	if c.IsDefault {
		t.Error("custom category marked as default")
	}

	if _, err := cats.Add(ctx, "travel"); !errors.Is(err, core.ErrConflict) {
		t.Errorf("Add(duplicate casing) error = %v, want ErrConflict", err)
	}
	if _, err := cats.Add(ctx, "food"); !errors.Is(err, core.ErrConflict) {
		t.Errorf("Add(default duplicate) error = %v, want ErrConflict", err)
	}
	if _, err := cats.Add(ctx, "   "); !errors.Is(err, core.ErrMissingCategory) {
		t.Errorf("Add(blank) error = %v, want ErrMissingCategory", err)
	}
}

func TestRenameCategory(t *testing.T) {
	cats, _ := newTestCategories(t)
	ctx := context.Background()

	if _, err := cats.Add(ctx, "Travel"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	c, err := cats.Rename(ctx, "Travel", "Trips")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if c.Name != "Trips" {
		t.Errorf("Name = %q, want Trips", c.Name)
	}

	if _, err := cats.Rename(ctx, "Trips", "food"); !errors.Is(err, core.ErrConflict) {
		t.Errorf("Rename(to existing) error = %v, want ErrConflict", err)
	}
	if _, err := cats.Rename(ctx, "Food", "Groceries"); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("Rename(default) error = %v, want ErrForbidden", err)
	}
	if _, err := cats.Rename(ctx, "Ghost", "Anything"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Rename(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := cats.Rename(ctx, "Trips", "Trips"); !errors.Is(err, core.ErrSameCategory) {
		t.Errorf("Rename(same) error = %v, want ErrSameCategory", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	cats, expenses := newTestCategories(t)
	ctx := context.Background()

	if _, err := cats.Add(ctx, "Travel"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := cats.Delete(ctx, "Food", expenses); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("Delete(default) error = %v, want ErrForbidden", err)
	}
	if err := cats.Delete(ctx, "Ghost", expenses); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Delete(unknown) error = %v, want ErrNotFound", err)
	}

	addExpense(t, expenses, core.NewDate(2025, 3, 1), "15", "Travel")
	if err := cats.Delete(ctx, "Travel", expenses); !errors.Is(err, core.ErrCategoryInUse) {
		t.Errorf("Delete(in use) error = %v, want ErrCategoryInUse", err)
	}

	if err := expenses.Delete(ctx, mustFindID(t, expenses, "Travel")); err != nil {
		t.Fatalf("expense Delete() error = %v", err)
	}
	if err := cats.Delete(ctx, "travel", expenses); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	list, err := cats.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, c := range list {
		if c.Name == "Travel" {
			t.Error("Travel still listed after delete")
		}
	}
}

func mustFindID(t *testing.T, expenses *ExpenseRepository, category string) string {
	t.Helper()
	list, err := expenses.List(context.Background(), Filter{Category: category})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) == 0 {
		t.Fatalf("no expense in category %s", category)
	}
	return list[0].ID
}
