// Package timeout keeps one cancellable confirmation timer per match.
package timeout

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const DefaultDuration = 60 * time.Second

// DefaultRetryDelay is how long a failed expiry waits before the handler runs
// again.
const DefaultRetryDelay = 5 * time.Second

// handlerTimeout bounds the work a fired timer may do.
const handlerTimeout = 15 * time.Second

// Handler is called when a timer expires without being cancelled. It must
// tolerate the match having been resolved or removed in the meantime.
type Handler interface {
	HandleExpired(ctx context.Context, matchID string) error
}

type entry struct {
	timer    *time.Timer
	firesAt  time.Time
	duration time.Duration
}

// Coordinator owns the process-local timer map. Timers are never persisted;
// a restart loses them.
type Coordinator struct {
	mu       sync.Mutex
	timers   map[string]*entry
	handler  Handler
	fallback time.Duration
	retry    time.Duration
	stopped  bool
	log      zerolog.Logger
}

// New returns a coordinator whose timers default to fallback (60s when
// fallback is not positive).
func New(l zerolog.Logger, fallback time.Duration) *Coordinator {
	if fallback <= 0 {
		fallback = DefaultDuration
	}
	return &Coordinator{
		timers:   make(map[string]*entry),
		fallback: fallback,
		retry:    DefaultRetryDelay,
		log:      l.With().Str("component", "timeout").Logger(),
	}
}

// Bind sets the handler invoked on expiry.
func (c *Coordinator) Bind(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

// SetRetryDelay changes the wait before a failed expiry is retried.
func (c *Coordinator) SetRetryDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.retry = d
	}
}

// Start schedules a one-shot timer for matchID, replacing any existing one,
// and returns when it will fire. A non-positive d uses the default duration.
func (c *Coordinator) Start(matchID string, d time.Duration) time.Time {
	if d <= 0 {
		d = c.fallback
	}

	c.mu.Lock()
	if old, ok := c.timers[matchID]; ok {
		old.timer.Stop()
	}
	e := c.schedule(matchID, d)
	c.mu.Unlock()

	c.log.Debug().Str("match_id", matchID).Dur("duration", d).Msg("Confirmation timer started")
	return e.firesAt
}

// schedule registers a new entry. Callers hold c.mu.
func (c *Coordinator) schedule(matchID string, d time.Duration) *entry {
	e := &entry{firesAt: time.Now().Add(d), duration: d}
	c.timers[matchID] = e
	// Assigned under the lock so fire never sees a nil timer.
	e.timer = time.AfterFunc(d, func() { c.fire(matchID, e) })
	return e
}

// Cancel stops and forgets the timer for matchID, reporting whether one was
// pending.
func (c *Coordinator) Cancel(matchID string) bool {
	c.mu.Lock()
	e, ok := c.timers[matchID]
	if ok {
		e.timer.Stop()
		delete(c.timers, matchID)
	}
	c.mu.Unlock()

	if ok {
		c.log.Debug().Str("match_id", matchID).Msg("Confirmation timer cancelled")
	}
	return ok
}

// Remaining returns the time left on the timer for matchID.
func (c *Coordinator) Remaining(matchID string) (time.Duration, bool) {
	c.mu.Lock()
	e, ok := c.timers[matchID]
	c.mu.Unlock()
	if !ok {
		return 0, false
	}

	left := time.Until(e.firesAt)
	if left < 0 {
		left = 0
	}
	return left, true
}

// Pending lists the match ids with a running timer, sorted.
func (c *Coordinator) Pending() []string {
	c.mu.Lock()
	ids := make([]string, 0, len(c.timers))
	for id := range c.timers {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	sort.Strings(ids)
	return ids
}

// Stop cancels every pending timer. Failed expiries are no longer retried
// afterwards.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	for id, e := range c.timers {
		e.timer.Stop()
		delete(c.timers, id)
	}
}

func (c *Coordinator) fire(matchID string, e *entry) {
	c.mu.Lock()
	if current, ok := c.timers[matchID]; !ok || current != e {
		// Cancelled or replaced after the timer had already triggered.
		c.mu.Unlock()
		return
	}
	delete(c.timers, matchID)
	handler := c.handler
	c.mu.Unlock()

	if handler == nil {
		c.log.Warn().Str("match_id", matchID).Msg("Confirmation timer expired with no handler bound")
		return
	}

	c.log.Info().Str("match_id", matchID).Dur("duration", e.duration).Msg("Confirmation timer expired")

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	if err := handler.HandleExpired(ctx, matchID); err != nil {
		c.retryLater(matchID, err)
	}
}

// retryLater re-arms an expired timer whose handler failed, unless a new
// timer was started for the match in the meantime.
func (c *Coordinator) retryLater(matchID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		c.log.Error().Err(err).Str("match_id", matchID).Msg("Resolving expired match failed")
		return
	}
	if _, ok := c.timers[matchID]; ok {
		return
	}
	c.schedule(matchID, c.retry)
	c.log.Error().Err(err).Str("match_id", matchID).Dur("retry_in", c.retry).Msg("Resolving expired match failed, retrying")
}
