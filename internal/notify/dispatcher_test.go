package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type countingSender struct {
	mu       sync.Mutex
	failures int // fail this many calls before succeeding
	calls    int
	got      []Event
}

func (s *countingSender) Send(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return errors.New("transient send failure")
	}
	s.got = append(s.got, e)
	return nil
}

func (s *countingSender) delivered() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.got))
	copy(out, s.got)
	return out
}

func TestDispatcher_DeliversToAllSenders(t *testing.T) {
	a := &countingSender{}
	b := &countingSender{}
	d := NewDispatcher(8, a, b)
	d.backoff = time.Millisecond
	d.Start()

	d.Publish(Event{GuaranteeID: "g1", Action: "approve"})
	d.Publish(Event{GuaranteeID: "g1", Action: "reject"})
	d.Stop()

	if got := a.delivered(); len(got) != 2 {
		t.Errorf("sender a got %d events, want 2", len(got))
	}
	if got := b.delivered(); len(got) != 2 || got[0].Action != "approve" || got[1].Action != "reject" {
		t.Errorf("sender b got %+v", got)
	}
}

func TestDispatcher_RetriesFailedSends(t *testing.T) {
	s := &countingSender{failures: 2}
	d := NewDispatcher(1, s)
	d.backoff = time.Millisecond
	d.Start()

	d.Publish(Event{GuaranteeID: "g1", Action: "activate"})
	d.Stop()

	if got := s.delivered(); len(got) != 1 {
		t.Fatalf("event not delivered after retries: %+v", got)
	}
	if s.calls != 3 {
		t.Errorf("sender called %d times, want 3", s.calls)
	}
}

func TestDispatcher_GivesUpAfterRetries(t *testing.T) {
	s := &countingSender{failures: 100}
	d := NewDispatcher(1, s)
	d.backoff = time.Millisecond
	d.Start()

	d.Publish(Event{GuaranteeID: "g1", Action: "cancel"})
	d.Stop()

	if got := s.delivered(); len(got) != 0 {
		t.Errorf("expected no delivery, got %+v", got)
	}
	// initial attempt plus the configured retries
	if s.calls != 4 {
		t.Errorf("sender called %d times, want 4", s.calls)
	}
}

func TestDispatcher_PublishNeverBlocks(t *testing.T) {
	// Not started: nothing drains the buffer, so extra events are dropped.
	d := NewDispatcher(1)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Publish(Event{GuaranteeID: "g1", Action: "approve"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}
}

func TestNopPublisher(t *testing.T) {
	// Must be safe to call; used wherever notifications are not wired.
	NopPublisher{}.Publish(Event{GuaranteeID: "g1"})
}
