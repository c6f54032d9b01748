package audit

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "veridesk/pkg/domain"
)

type captureSink struct {
	events chan Event
}

func (s *captureSink) Send(_ context.Context, event Event) error {
	s.events <- event
	return nil
}

func TestWorker_DrainsInboxToStoreAndSink(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	pub := NewChannelPublisher(16, logger)
	store := NewInMemoryStore(100)
	sink := &captureSink{events: make(chan Event, 16)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = NewWorker(store, sink, pub.Inbox(), logger).Run(ctx)
	}()

	sessionID := id.NewSessionID()
	pub.Publish(ctx, Event{Action: ActionLogin, SessionID: sessionID, Actor: "ops@acme.test"})
	pub.Publish(ctx, Event{Action: ActionApplicantCreated, SessionID: sessionID, TargetID: "applicant-1"})

	// The sink sees both events in order.
	first := <-sink.events
	second := <-sink.events
	assert.Equal(t, ActionLogin, first.Action)
	assert.Equal(t, ActionApplicantCreated, second.Action)
	assert.False(t, first.OccurredAt.IsZero(), "publisher stamps missing timestamps")

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ActionApplicantCreated, recent[0].Action, "newest first")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}
}

func TestChannelPublisher_DropsWhenFull(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	pub := NewChannelPublisher(1, logger)

	// No worker draining: the second publish must not block.
	pub.Publish(context.Background(), Event{Action: ActionLogin})
	donePublishing := make(chan struct{})
	go func() {
		defer close(donePublishing)
		pub.Publish(context.Background(), Event{Action: ActionLogout})
	}()

	select {
	case <-donePublishing:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full inbox")
	}
	assert.Len(t, pub.Inbox(), 1)
}

func TestRecorder_CapturesEvents(t *testing.T) {
	rec := NewRecorder()
	rec.Publish(context.Background(), Event{Action: ActionFlowDeleted, TargetID: "flow-9"})

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ActionFlowDeleted, events[0].Action)
	assert.Equal(t, "flow-9", events[0].TargetID)
}
