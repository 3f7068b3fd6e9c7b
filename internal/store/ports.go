// Package store defines the row-store port the repositories are built on.
//
// The backing medium is a spreadsheet-style table store: named partitions of
// string rows, with a fixed header in the first row of each partition. Three
// adapters implement the port: Google Sheets (remote), SQLite (local durable)
// and an in-memory store (ephemeral). The strategy is chosen at startup,
// never as a silent runtime fallback.
package store

import (
	"context"
	"fmt"
)

// Row is one record of a partition, as raw cell strings.
type Row []string

// RowStore is the narrow contract against the tabular store. Row indexes are
// zero-based over data rows; the header row is not part of the index space.
//
// ReadRows preserves row positions: a cleared row comes back as an empty Row
// so that indexes of later rows stay stable. Implementations never compact.
type RowStore interface {
	// Partitions lists the names of all existing partitions.
	Partitions(ctx context.Context) ([]string, error)
	// EnsurePartition creates the partition and seeds its header row if it
	// does not exist yet. Existing partitions are left untouched.
	EnsurePartition(ctx context.Context, name string, header Row) error
	// ReadRows returns all data rows of a partition in position order.
	// Reading a missing partition returns no rows, not an error.
	ReadRows(ctx context.Context, name string) ([]Row, error)
	// AppendRow adds a row after the last data row of the partition.
	AppendRow(ctx context.Context, name string, row Row) error
	// UpdateRow replaces the row at index in place.
	UpdateRow(ctx context.Context, name string, index int, row Row) error
	// ClearRow blanks the row at index without shifting later rows.
	ClearRow(ctx context.Context, name string, index int) error
}

// RowRangeError reports an update or clear aimed at a row that does not
// exist in the partition.
type RowRangeError struct {
	Partition string
	Index     int
}

func (e *RowRangeError) Error() string {
	return fmt.Sprintf("no row %d in partition %s", e.Index, e.Partition)
}

// IsBlank reports whether every cell of the row is empty, which is how a
// cleared row reads back.
func (r Row) IsBlank() bool {
	for _, c := range r {
		if c != "" {
			return false
		}
	}
	return true
}
