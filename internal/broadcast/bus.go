// Package broadcast fans committed todo mutations out to live update
// subscribers.
package broadcast

import (
	"errors"
	"sync"
	"sync/atomic"

	dom "github.com/birlikkoshan/todo-live/internal/domain"
	"github.com/birlikkoshan/todo-live/internal/metrics"
)

// DefaultCapacity is the per-subscriber backlog used when Options.Capacity is unset.
const DefaultCapacity = 100

var ErrClosed = errors.New("mutation bus closed")

type Options struct {
	// Capacity is the number of events buffered per subscriber before
	// further events are dropped for it and lag is reported.
	Capacity int
	Metrics  *metrics.Metrics
}

// Bus is a multi-producer, multi-consumer broadcast of mutations. A
// subscriber observes every mutation published after it subscribed, in
// publish order, unless it lags behind by more than the backlog capacity.
type Bus struct {
	capacity int
	metrics  *metrics.Metrics

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

func NewBus(opts Options) *Bus {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	return &Bus{
		capacity: opts.Capacity,
		metrics:  opts.Metrics,
		subs:     make(map[*Subscription]struct{}),
	}
}

// Subscribe returns a handle receiving every mutation published from now on.
func (b *Bus) Subscribe() (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	s := &Subscription{
		bus:    b,
		ch:     make(chan dom.Mutation, b.capacity),
		lagged: make(chan struct{}, 1),
	}
	b.subs[s] = struct{}{}
	return s, nil
}

// Publish hands m to every current subscriber without blocking and returns
// how many of them accepted it. No subscribers is not an error.
func (b *Bus) Publish(m dom.Mutation) (int, error) {
	// The lock is held for the whole fan-out so concurrent publishers are
	// serialized and every subscriber sees the same order.
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, ErrClosed
	}
	delivered := 0
	for s := range b.subs {
		select {
		case s.ch <- m:
			delivered++
		default:
			s.missed.Add(1)
			b.metrics.Dropped(1)
			select {
			case s.lagged <- struct{}{}:
			default:
			}
		}
	}
	return delivered, nil
}

// SubscriberCount reports the number of open subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription; later publishes return ErrClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		delete(b.subs, s)
		close(s.ch)
	}
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s]; ok {
		delete(b.subs, s)
		close(s.ch)
	}
}

// Subscription is one receiver on the bus.
type Subscription struct {
	bus    *Bus
	ch     chan dom.Mutation
	lagged chan struct{}
	missed atomic.Uint64
}

// C delivers mutations in publish order. It is closed when the
// subscription or the bus is closed.
func (s *Subscription) C() <-chan dom.Mutation { return s.ch }

// Lagged is signalled when at least one event was dropped because the
// backlog was full. Call TakeMissed to read how many.
func (s *Subscription) Lagged() <-chan struct{} { return s.lagged }

// TakeMissed returns the number of dropped events since the last call and
// resets the count.
func (s *Subscription) TakeMissed() uint64 { return s.missed.Swap(0) }

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() { s.bus.remove(s) }
