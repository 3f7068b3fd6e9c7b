// Package memory implements the row store in process memory.
//
// It is the ephemeral strategy: data is lost on restart. It exists for local
// development and tests, and is only ever selected explicitly at startup.
package memory

import (
	"context"
	"sync"

	"homespend/internal/store"
)

type partition struct {
	header store.Row
	rows   []store.Row
}

type Store struct {
	mu    sync.Mutex
	parts map[string]*partition
	order []string
}

func New() *Store {
	return &Store{parts: make(map[string]*partition)}
}

var _ store.RowStore = (*Store)(nil)

func (s *Store) Partitions(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

func (s *Store) EnsurePartition(_ context.Context, name string, header store.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.parts[name]; ok {
		return nil
	}
	s.parts[name] = &partition{header: cloneRow(header)}
	s.order = append(s.order, name)
	return nil
}

func (s *Store) ReadRows(_ context.Context, name string) ([]store.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parts[name]
	if !ok {
		return nil, nil
	}
	out := make([]store.Row, len(p.rows))
	for i, r := range p.rows {
		out[i] = cloneRow(r)
	}
	return out, nil
}

func (s *Store) AppendRow(_ context.Context, name string, row store.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parts[name]
	if !ok {
		p = &partition{}
		s.parts[name] = p
		s.order = append(s.order, name)
	}
	p.rows = append(p.rows, cloneRow(row))
	return nil
}

func (s *Store) UpdateRow(_ context.Context, name string, index int, row store.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parts[name]
	if !ok || index < 0 || index >= len(p.rows) {
		return &store.RowRangeError{Partition: name, Index: index}
	}
	p.rows[index] = cloneRow(row)
	return nil
}

func (s *Store) ClearRow(_ context.Context, name string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parts[name]
	if !ok || index < 0 || index >= len(p.rows) {
		return &store.RowRangeError{Partition: name, Index: index}
	}
	p.rows[index] = store.Row{}
	return nil
}

func cloneRow(r store.Row) store.Row {
	out := make(store.Row, len(r))
	copy(out, r)
	return out
}
