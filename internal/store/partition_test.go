package store

import (
	"testing"
	"time"
)

func TestMonthPartition(t *testing.T) {
	if got := MonthPartition(2025, time.January); got != "2025-01" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := MonthPartition(2025, time.December); got != "2025-12" {
		t.Fatalf("unexpected name: %q", got)
	}
}

func TestParseMonthPartition(t *testing.T) {
	year, month, ok := ParseMonthPartition("2025-03")
	if !ok || year != 2025 || month != time.March {
		t.Fatalf("unexpected parse: %d %v %v", year, month, ok)
	}

	for _, name := range []string{"Expenses", "Categories", "2025-13", "2025-3", "25-03", "2025-03-01", ""} {
		if IsMonthPartition(name) {
			t.Fatalf("%q should not parse as a month partition", name)
		}
	}
}

func TestRowIsBlank(t *testing.T) {
	if !(Row{}).IsBlank() || !(Row{"", ""}).IsBlank() {
		t.Fatal("empty rows should be blank")
	}
	if (Row{"", "x"}).IsBlank() {
		t.Fatal("row with a cell should not be blank")
	}
}
