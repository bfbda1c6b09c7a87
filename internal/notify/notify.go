package notify

import (
	"context"
	"log"
	"sync"
	"time"
)

// Event describes a committed transition. Events are published only after the
// transaction is durable; a failed or dropped notification never affects the
// state change it describes.
type Event struct {
	GuaranteeID string
	Action      string
	State       string
	ActorID     string
	ActorRole   string
	At          time.Time
}

// Publisher is what the transition engine sees.
type Publisher interface {
	Publish(e Event)
}

// Sender delivers one event to one channel (email, in-app, webhook).
type Sender interface {
	Send(ctx context.Context, e Event) error
}

// Dispatcher fans events out to senders asynchronously with at-least-once
// delivery per sender: failed sends are retried with backoff before being
// logged and dropped.
type Dispatcher struct {
	ch       chan Event
	senders  []Sender
	retries  int
	backoff  time.Duration
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewDispatcher(buffer int, senders ...Sender) *Dispatcher {
	return &Dispatcher{
		ch:      make(chan Event, buffer),
		senders: senders,
		retries: 3,
		backoff: 500 * time.Millisecond,
	}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop drains queued events and waits for in-flight sends.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.ch) })
	d.wg.Wait()
}

// Publish never blocks the caller. If the buffer is full the event is logged
// and dropped; callers have already committed and must not wait.
func (d *Dispatcher) Publish(e Event) {
	select {
	case d.ch <- e:
	default:
		log.Printf("notify: buffer full, dropping event %s/%s", e.GuaranteeID, e.Action)
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for e := range d.ch {
		for _, s := range d.senders {
			d.deliver(s, e)
		}
	}
}

func (d *Dispatcher) deliver(s Sender, e Event) {
	var err error
	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(d.backoff * time.Duration(attempt))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = s.Send(ctx, e)
		cancel()
		if err == nil {
			return
		}
	}
	log.Printf("notify: giving up on event %s/%s: %v", e.GuaranteeID, e.Action, err)
}

// NopPublisher satisfies Publisher where notifications are not wired (tests).
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
