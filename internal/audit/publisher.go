package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Publisher accepts audit events from domain services. Publishing is
// fire-and-forget: audit delivery never blocks or fails an operator action.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// ChannelPublisher hands events to a background worker over a bounded
// channel. A full channel drops the event with a warning rather than
// stalling the request path.
type ChannelPublisher struct {
	inbox  chan Event
	logger *slog.Logger
	now    func() time.Time
}

func NewChannelPublisher(buffer int, logger *slog.Logger) *ChannelPublisher {
	return &ChannelPublisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
		now:    time.Now,
	}
}

// Inbox exposes the event channel for the worker.
func (p *ChannelPublisher) Inbox() <-chan Event {
	return p.inbox
}

func (p *ChannelPublisher) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now()
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, event dropped",
			"action", event.Action,
			"session_id", event.SessionID,
		)
	}
}

// NopPublisher discards events. Used in tests that don't assert on auditing.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

// Recorder captures events in memory so tests can assert on what was
// published.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

var (
	_ Publisher = (*ChannelPublisher)(nil)
	_ Publisher = NopPublisher{}
	_ Publisher = (*Recorder)(nil)
)
