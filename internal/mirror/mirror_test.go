package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"homespend/internal/store"
	"homespend/internal/store/memory"
)

type capturePublisher struct {
	events []*RowEvent
	err    error
}

func (p *capturePublisher) PublishRowEvent(_ context.Context, e *RowEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func TestStorePublishesWriteEvents(t *testing.T) {
	pub := &capturePublisher{}
	s := NewStore(memory.New(), pub)
	ctx := context.Background()

	header := store.Row{"ID", "Date"}
	if err := s.EnsurePartition(ctx, "2025-01", header); err != nil {
		t.Fatalf("EnsurePartition() error = %v", err)
	}
	if err := s.AppendRow(ctx, "2025-01", store.Row{"a", "2025-01-05"}); err != nil {
		t.Fatalf("AppendRow() error = %v", err)
	}
	if err := s.UpdateRow(ctx, "2025-01", 0, store.Row{"a", "2025-01-06"}); err != nil {
		t.Fatalf("UpdateRow() error = %v", err)
	}
	if err := s.ClearRow(ctx, "2025-01", 0); err != nil {
		t.Fatalf("ClearRow() error = %v", err)
	}

	if len(pub.events) != 3 {
		t.Fatalf("published %d events, want 3", len(pub.events))
	}

	appendEvent := pub.events[0]
	if appendEvent.Op != OpAppend || appendEvent.Partition != "2025-01" {
		t.Errorf("event 0 = %s/%s, want append/2025-01", appendEvent.Op, appendEvent.Partition)
	}
	if len(appendEvent.Header) != 2 {
		t.Errorf("append event header = %v, want the partition header", appendEvent.Header)
	}
	if pub.events[1].Op != OpUpdate || pub.events[1].Index != 0 {
		t.Errorf("event 1 = %s/%d, want update/0", pub.events[1].Op, pub.events[1].Index)
	}
	if pub.events[2].Op != OpClear {
		t.Errorf("event 2 op = %s, want clear", pub.events[2].Op)
	}
}

func TestStoreWriteSurvivesPublishFailure(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	inner := memory.New()
	s := NewStore(inner, pub)
	ctx := context.Background()

	if err := s.AppendRow(ctx, "2025-01", store.Row{"a"}); err != nil {
		t.Fatalf("AppendRow() error = %v, want nil despite publish failure", err)
	}

	rows, err := inner.ReadRows(ctx, "2025-01")
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("inner store has %d rows, want 1", len(rows))
	}
}

func TestStoreReadsBypassPublisher(t *testing.T) {
	pub := &capturePublisher{}
	s := NewStore(memory.New(), pub)
	ctx := context.Background()

	if _, err := s.Partitions(ctx); err != nil {
		t.Fatalf("Partitions() error = %v", err)
	}
	if _, err := s.ReadRows(ctx, "2025-01"); err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("reads published %d events, want 0", len(pub.events))
	}
}

func TestWorkerApplyReplaysEvents(t *testing.T) {
	sheet := memory.New()
	w := NewWorker(nil, sheet)
	ctx := context.Background()

	appendEvent := NewRowEvent(OpAppend, "2025-01", 0, []string{"a", "2025-01-05"})
	appendEvent.Header = []string{"ID", "Date"}
	if err := w.Apply(ctx, appendEvent); err != nil {
		t.Fatalf("Apply(append) error = %v", err)
	}
	if err := w.Apply(ctx, NewRowEvent(OpUpdate, "2025-01", 0, []string{"a", "2025-01-06"})); err != nil {
		t.Fatalf("Apply(update) error = %v", err)
	}

	rows, err := sheet.ReadRows(ctx, "2025-01")
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if len(rows) != 1 || rows[0][1] != "2025-01-06" {
		t.Fatalf("sheet rows = %v, want one row with updated date", rows)
	}

	if err := w.Apply(ctx, NewRowEvent(OpClear, "2025-01", 0, nil)); err != nil {
		t.Fatalf("Apply(clear) error = %v", err)
	}
	rows, err = sheet.ReadRows(ctx, "2025-01")
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if !rows[0].IsBlank() {
		t.Errorf("row = %v, want blank after clear", rows[0])
	}
}

// scriptedConsumer delivers its events, then returns its scripted error.
type scriptedConsumer struct {
	events []*RowEvent
	err    error
	closed bool
}

func (c *scriptedConsumer) ConsumeRowEvents(_ context.Context, handler func(*RowEvent) error) error {
	for _, e := range c.events {
		if err := handler(e); err != nil {
			return err
		}
	}
	return c.err
}

func (c *scriptedConsumer) Close() error {
	c.closed = true
	return nil
}

func TestWorkerRunRedialsAfterConnectionLoss(t *testing.T) {
	sheet := memory.New()
	appendEvent := NewRowEvent(OpAppend, "2025-01", 0, []string{"a", "2025-01-05"})
	appendEvent.Header = []string{"ID", "Date"}

	final := &scriptedConsumer{
		events: []*RowEvent{appendEvent},
		err:    errors.New("consume finished"),
	}
	dials := 0
	w := NewWorker(func() (Consumer, error) {
		dials++
		switch dials {
		case 1:
			return nil, errors.New("dial AMQP: connection refused")
		case 2:
			return &scriptedConsumer{err: errors.New("message channel closed")}, nil
		default:
			return final, nil
		}
	}, sheet)
	w.backoff = func(int) time.Duration { return 0 }

	err := w.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "consume finished") {
		t.Fatalf("Run() error = %v, want the final consume error", err)
	}
	if dials != 3 {
		t.Errorf("dialed %d times, want 3 (failed dial, dropped channel, final run)", dials)
	}
	if !final.closed {
		t.Error("consumer left open after ConsumeRowEvents returned")
	}

	rows, err := sheet.ReadRows(context.Background(), "2025-01")
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("sheet has %d rows after reconnect, want the replayed row", len(rows))
	}
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(func() (Consumer, error) {
		cancel()
		return nil, errors.New("connection refused")
	}, memory.New())
	w.backoff = func(int) time.Duration { return time.Hour }

	if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestWorkerApplyRejectsBadEvents(t *testing.T) {
	w := NewWorker(nil, memory.New())

	if err := w.Apply(context.Background(), &RowEvent{Op: "drop", Partition: "x"}); err == nil {
		t.Error("Apply() accepted an unknown op")
	}
	if err := w.Apply(context.Background(), &RowEvent{Op: OpAppend}); err == nil {
		t.Error("Apply() accepted an event without partition")
	}
}

func TestRowEventJSONRoundTrip(t *testing.T) {
	event := NewRowEvent(OpAppend, "2025-01", 3, []string{"a", "b"})
	event.Header = []string{"ID", "Date"}

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	parsed, err := RowEventFromJSON(data)
	if err != nil {
		t.Fatalf("RowEventFromJSON() error = %v", err)
	}
	if parsed.Op != event.Op || parsed.Partition != event.Partition || parsed.Index != event.Index {
		t.Errorf("parsed = %+v, want %+v", parsed, event)
	}
	if len(parsed.Cells) != 2 || len(parsed.Header) != 2 {
		t.Errorf("parsed payload = %v/%v, want cells and header preserved", parsed.Cells, parsed.Header)
	}
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("connection refused"), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed channel", errors.New("message channel closed"), true},
		{"stale amqp channel", errors.New("start consuming: channel/connection is not open"), true},
		{"validation error", errors.New("invalid input"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}
