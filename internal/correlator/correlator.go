package correlator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fleshka4/quote-aggregator/internal/metrics"
	"github.com/fleshka4/quote-aggregator/internal/model"
)

// Retention is how long a stored envelope stays retrievable.
const Retention = 600 * time.Second

// Timer is a stoppable scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type entry struct {
	envelope *model.Envelope
	timer    Timer
}

// Correlator keeps aggregated envelopes addressable by request id for a
// fixed retention window. Reads never extend retention.
type Correlator struct {
	entries   sync.Map
	retention time.Duration
	schedule  Scheduler

	mu     sync.Mutex
	closed bool
}

// Option configures a Correlator.
type Option func(*Correlator)

// WithScheduler replaces time.AfterFunc.
func WithScheduler(s Scheduler) Option {
	return func(c *Correlator) { c.schedule = s }
}

// WithRetention overrides the retention window.
func WithRetention(d time.Duration) Option {
	return func(c *Correlator) { c.retention = d }
}

// New creates a Correlator.
func New(opts ...Option) *Correlator {
	c := &Correlator{
		retention: Retention,
		schedule:  afterFunc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store assigns a fresh request id to data and returns the success envelope.
func (c *Correlator) Store(data []model.RankedQuote) *model.Envelope {
	for {
		env := &model.Envelope{
			RequestID: uuid.NewString(),
			Success:   true,
			Data:      data,
		}
		e := &entry{envelope: env}
		if _, loaded := c.entries.LoadOrStore(env.RequestID, e); loaded {
			continue
		}
		metrics.StoredEnvelopes.Inc()

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			c.evict(env.RequestID)
			return env
		}
		id := env.RequestID
		e.timer = c.schedule(c.retention, func() { c.evict(id) })
		c.mu.Unlock()
		return env
	}
}

// Lookup returns the envelope stored under id.
func (c *Correlator) Lookup(id string) (*model.Envelope, bool) {
	v, ok := c.entries.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*entry).envelope, true
}

// Len returns the number of stored envelopes.
func (c *Correlator) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close stops every pending eviction and drops all entries.
func (c *Correlator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.entries.Range(func(k, v any) bool {
		if t := v.(*entry).timer; t != nil {
			t.Stop()
		}
		c.evict(k.(string))
		return true
	})
}

func (c *Correlator) evict(id string) {
	if _, ok := c.entries.LoadAndDelete(id); ok {
		metrics.StoredEnvelopes.Dec()
	}
}
