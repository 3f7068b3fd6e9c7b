package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"homespend/internal/metrics"
	"homespend/internal/store"
)

// Consumer is the slice of the AMQP client the worker needs.
type Consumer interface {
	ConsumeRowEvents(ctx context.Context, handler func(*RowEvent) error) error
	Close() error
}

// ConnectFunc dials the broker and returns a ready consumer. The worker
// calls it again after every lost connection.
type ConnectFunc func() (Consumer, error)

// Worker replays queued row events against the remote sheet. It runs as its
// own process so a slow or unreachable Sheets API never delays a request.
type Worker struct {
	connect ConnectFunc
	sheet   store.RowStore
	backoff func(attempt int) time.Duration
}

func NewWorker(connect ConnectFunc, sheet store.RowStore) *Worker {
	return &Worker{connect: connect, sheet: sheet, backoff: exponentialBackoff}
}

// Run consumes until ctx is done, re-dialing with backoff after broker
// failures. Non-connection errors stop the worker.
func (w *Worker) Run(ctx context.Context) error {
	attempt := 0
	for {
		consumer, err := w.connect()
		if err == nil {
			attempt = 0
			err = consumer.ConsumeRowEvents(ctx, func(event *RowEvent) error {
				if applyErr := w.Apply(ctx, event); applyErr != nil {
					metrics.MirrorEventsApplied.WithLabelValues("error").Inc()
					return applyErr
				}
				metrics.MirrorEventsApplied.WithLabelValues("ok").Inc()
				return nil
			})
			consumer.Close()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !isConnectionError(err) {
			return err
		}

		wait := w.backoff(attempt)
		attempt++
		slog.WarnContext(ctx, "Broker connection lost, reconnecting",
			"wait", wait,
			"attempt", attempt,
			"error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Apply performs one event against the sheet. Append events create the
// partition first, so a tab missing from the sheet never loses a row.
func (w *Worker) Apply(ctx context.Context, event *RowEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	switch event.Op {
	case OpAppend:
		header := store.Row(event.Header)
		if err := w.sheet.EnsurePartition(ctx, event.Partition, header); err != nil {
			return fmt.Errorf("ensure partition %s: %w", event.Partition, err)
		}
		if err := w.sheet.AppendRow(ctx, event.Partition, store.Row(event.Cells)); err != nil {
			return fmt.Errorf("append to %s: %w", event.Partition, err)
		}
	case OpUpdate:
		if err := w.sheet.UpdateRow(ctx, event.Partition, event.Index, store.Row(event.Cells)); err != nil {
			return fmt.Errorf("update %s row %d: %w", event.Partition, event.Index, err)
		}
	case OpClear:
		if err := w.sheet.ClearRow(ctx, event.Partition, event.Index); err != nil {
			return fmt.Errorf("clear %s row %d: %w", event.Partition, event.Index, err)
		}
	}
	return nil
}
