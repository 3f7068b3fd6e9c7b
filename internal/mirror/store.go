package mirror

import (
	"context"
	"log/slog"
	"sync"

	"homespend/internal/metrics"
	"homespend/internal/store"
)

// Publisher is the slice of the AMQP client the mirroring store needs.
type Publisher interface {
	PublishRowEvent(ctx context.Context, event *RowEvent) error
}

// Store wraps a row store and publishes an event after every successful
// write. Publishing is best effort: a broker failure is logged and the
// write still succeeds, since the local store is the source of truth.
type Store struct {
	inner store.RowStore
	pub   Publisher

	mu      sync.Mutex
	headers map[string]store.Row
}

var _ store.RowStore = (*Store)(nil)

func NewStore(inner store.RowStore, pub Publisher) *Store {
	return &Store{
		inner:   inner,
		pub:     pub,
		headers: make(map[string]store.Row),
	}
}

func (s *Store) Partitions(ctx context.Context) ([]string, error) {
	return s.inner.Partitions(ctx)
}

func (s *Store) ReadRows(ctx context.Context, name string) ([]store.Row, error) {
	return s.inner.ReadRows(ctx, name)
}

func (s *Store) EnsurePartition(ctx context.Context, name string, header store.Row) error {
	if err := s.inner.EnsurePartition(ctx, name, header); err != nil {
		return err
	}
	s.rememberHeader(name, header)
	return nil
}

func (s *Store) AppendRow(ctx context.Context, name string, row store.Row) error {
	if err := s.inner.AppendRow(ctx, name, row); err != nil {
		return err
	}
	event := NewRowEvent(OpAppend, name, 0, row)
	event.Header = s.header(name)
	s.publish(ctx, event)
	return nil
}

func (s *Store) UpdateRow(ctx context.Context, name string, index int, row store.Row) error {
	if err := s.inner.UpdateRow(ctx, name, index, row); err != nil {
		return err
	}
	s.publish(ctx, NewRowEvent(OpUpdate, name, index, row))
	return nil
}

func (s *Store) ClearRow(ctx context.Context, name string, index int) error {
	if err := s.inner.ClearRow(ctx, name, index); err != nil {
		return err
	}
	s.publish(ctx, NewRowEvent(OpClear, name, index, nil))
	return nil
}

func (s *Store) publish(ctx context.Context, event *RowEvent) {
	if err := s.pub.PublishRowEvent(ctx, event); err != nil {
		metrics.MirrorEventsPublished.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "Row event not mirrored",
			"op", event.Op,
			"partition", event.Partition,
			"error", err)
		return
	}
	metrics.MirrorEventsPublished.WithLabelValues("ok").Inc()
}

func (s *Store) rememberHeader(name string, header store.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(header) > 0 {
		s.headers[name] = header
	}
}

func (s *Store) header(name string) store.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[name]
}
