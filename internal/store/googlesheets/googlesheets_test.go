package googlesheets

import (
	"context"
	"testing"

	"homespend/internal/store"
)

func TestNewRequiresSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), Options{}); err == nil {
		t.Fatal("expected error without spreadsheet ID")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "sheet"})
	if err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestSheetRowSkipsHeader(t *testing.T) {
	if sheetRow(0) != 2 || sheetRow(5) != 7 {
		t.Fatalf("unexpected mapping: %d %d", sheetRow(0), sheetRow(5))
	}
}

func TestValueConversion(t *testing.T) {
	row := valuesToRow([]any{" a ", 12.5, true, nil})
	want := store.Row{"a", "12.5", "true", ""}
	if len(row) != len(want) {
		t.Fatalf("unexpected length: %v", row)
	}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("cell %d: got %q want %q", i, row[i], want[i])
		}
	}

	vals := rowToValues(store.Row{"x", "y"})
	if len(vals) != 2 || vals[0] != "x" || vals[1] != "y" {
		t.Fatalf("unexpected values: %v", vals)
	}
}
