// Package sqlite implements the row store on a local SQLite database.
//
// It keeps the same partition/row shape as the spreadsheet backends: one
// logical partition per table name, rows stored as JSON-encoded cell arrays
// keyed by (partition, row index). The durable local strategy, useful when
// the household does not want its data in a remote spreadsheet — the mirror
// worker can still replay changes into one.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"homespend/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var _ store.RowStore = (*Store)(nil)

// Open opens (creating if necessary) the database at dbPath and applies
// pending migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Partitions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM partitions ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan partition: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *Store) EnsurePartition(ctx context.Context, name string, header store.Row) error {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO partitions (name, header) VALUES (?, ?)
		 ON CONFLICT (name) DO NOTHING`,
		name, string(headerJSON))
	if err != nil {
		return fmt.Errorf("ensure partition %s: %w", name, err)
	}
	return nil
}

func (s *Store) ReadRows(ctx context.Context, name string) ([]store.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM rows WHERE partition = ? ORDER BY row_idx`, name)
	if err != nil {
		return nil, fmt.Errorf("read rows of %s: %w", name, err)
	}
	defer rows.Close()

	var out []store.Row
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var r store.Row
		if err := json.Unmarshal([]byte(cells), &r); err != nil {
			return nil, fmt.Errorf("decode row of %s: %w", name, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) AppendRow(ctx context.Context, name string, row store.Row) error {
	if err := s.EnsurePartition(ctx, name, nil); err != nil {
		return err
	}
	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rows (partition, row_idx, cells)
		 SELECT ?, COALESCE(MAX(row_idx) + 1, 0), ? FROM rows WHERE partition = ?`,
		name, string(cells), name)
	if err != nil {
		return fmt.Errorf("append to %s: %w", name, err)
	}
	return nil
}

func (s *Store) UpdateRow(ctx context.Context, name string, index int, row store.Row) error {
	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE rows SET cells = ? WHERE partition = ? AND row_idx = ?`,
		string(cells), name, index)
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", name, index, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", name, index, err)
	}
	if affected == 0 {
		return &store.RowRangeError{Partition: name, Index: index}
	}
	return nil
}

func (s *Store) ClearRow(ctx context.Context, name string, index int) error {
	return s.UpdateRow(ctx, name, index, store.Row{})
}
