package store

import (
	"fmt"
	"time"
)

// Partition naming convention. Expense rows live in one partition per
// calendar month, named by the expense date's "YYYY-MM". Two fixed
// partitions exist besides the monthly ones: the category table, and a
// legacy unpartitioned expense table that older data may still sit in.
const (
	CategoriesPartition    = "Categories"
	LegacyExpensePartition = "Expenses"
)

// MonthPartition returns the partition name for a year and 1-based month.
func MonthPartition(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// ParseMonthPartition extracts year and month from a monthly partition name.
// ok is false for any other partition name.
func ParseMonthPartition(name string) (year int, month time.Month, ok bool) {
	if len(name) != 7 || name[4] != '-' {
		return 0, 0, false
	}
	t, err := time.Parse("2006-01", name)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}

// IsMonthPartition reports whether name follows the "YYYY-MM" convention.
func IsMonthPartition(name string) bool {
	_, _, ok := ParseMonthPartition(name)
	return ok
}
