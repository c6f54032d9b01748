package audit

import (
	"context"
	"log/slog"
)

// Sink receives events after they are stored, e.g. a Kafka producer. Sink
// failures are logged and do not stop the worker.
type Sink interface {
	Send(ctx context.Context, event Event) error
}

// Worker consumes audit events from a channel and persists them, fanning out
// to an optional sink. It keeps background processing testable without wiring
// queue implementations into domain services.
type Worker struct {
	store  Store
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit store append failed",
					"action", event.Action,
					"error", err,
				)
			}
			if w.sink == nil {
				continue
			}
			if err := w.sink.Send(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit sink send failed",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
