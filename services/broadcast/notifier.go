package broadcast

import (
	"Courtside/models"
	"context"
	"errors"
	"sync"
)

// Notifier publishes a state-change event to every current subscriber of a
// logical channel. Delivery is best-effort: nothing is stored or replayed.
type Notifier interface {
	Publish(ctx context.Context, channel models.Channel, event string, payload interface{}) error
}

// Fanout forwards each event to several notifiers in order. Every notifier is
// tried even if an earlier one fails; the errors are joined.
type Fanout []Notifier

func (f Fanout) Publish(ctx context.Context, channel models.Channel, event string, payload interface{}) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Publish(ctx, channel, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, models.Channel, string, interface{}) error { return nil }

// Published is one event seen by a Recorder.
type Published struct {
	Channel models.Channel
	Event   string
	Payload interface{}
}

// Recorder keeps every published event in memory, in publish order.
type Recorder struct {
	mu     sync.Mutex
	events []Published
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, channel models.Channel, event string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Published{Channel: channel, Event: event, Payload: payload})
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

// Names returns the event names published on channel, in order.
func (r *Recorder) Names(channel models.Channel) []string {
	names := make([]string, 0)
	for _, e := range r.Events() {
		if e.Channel == channel {
			names = append(names, e.Event)
		}
	}
	return names
}

// Last returns the most recent event with the given name on channel.
func (r *Recorder) Last(channel models.Channel, event string) (Published, bool) {
	events := r.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Channel == channel && events[i].Event == event {
			return events[i], true
		}
	}
	return Published{}, false
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
