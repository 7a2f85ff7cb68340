// Package stream serves the live update feed of a single client: it merges
// bus mutations with keep-alive pings until the client goes away or the
// process shuts down.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/google/uuid"
	"github.com/juju/clock"

	"github.com/birlikkoshan/todo-live/internal/broadcast"
	dom "github.com/birlikkoshan/todo-live/internal/domain"
	"github.com/birlikkoshan/todo-live/internal/metrics"
)

const (
	DefaultKeepAlive = 5 * time.Second

	EventPing = "ping"
	// pingData is the JSON encoding of the string "ping".
	pingData = `"ping"`
)

// Renderer renders the fragment pushed for create and update events.
type Renderer interface {
	Todo(t dom.Todo) (string, error)
}

// Sink writes one event to the client connection.
type Sink interface {
	Send(ev sse.Event) error
}

type Options struct {
	KeepAlive time.Duration
	Clock     clock.Clock
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

type Session struct {
	id        string
	sub       *broadcast.Subscription
	renderer  Renderer
	keepAlive time.Duration
	clock     clock.Clock
	logger    *slog.Logger
	metrics   *metrics.Metrics
	closeOnce sync.Once
}

// Open subscribes to the bus. Mutations published after Open returns are
// delivered by Run.
func Open(bus *broadcast.Bus, r Renderer, opts Options) (*Session, error) {
	sub, err := bus.Subscribe()
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = DefaultKeepAlive
	}
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	id := uuid.NewString()
	opts.Metrics.SessionOpened()
	return &Session{
		id:        id,
		sub:       sub,
		renderer:  r,
		keepAlive: opts.KeepAlive,
		clock:     opts.Clock,
		logger:    opts.Logger.With("session", id),
		metrics:   opts.Metrics,
	}, nil
}

func (s *Session) ID() string { return s.id }

// Run emits events to sink until ctx is done or the bus is closed, both of
// which return nil. A failing sink ends the session with its error.
func (s *Session) Run(ctx context.Context, sink Sink) error {
	defer s.Close()
	s.logger.Debug("live update session started")

	timer := s.clock.NewTimer(s.keepAlive)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("live update session cancelled")
			return nil

		case m, ok := <-s.sub.C():
			if !ok {
				s.logger.Debug("mutation bus closed")
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			ev, err := s.event(m)
			if err != nil {
				s.logger.Error("dropping mutation event", "kind", m.Kind(), "todo_id", m.TodoID(), "err", err)
				continue
			}
			if err := sink.Send(ev); err != nil {
				return fmt.Errorf("send %s event: %w", ev.Event, err)
			}

		case <-s.sub.Lagged():
			s.logger.Warn("live update subscriber lagged", "dropped", s.sub.TakeMissed())

		case <-timer.Chan():
			timer.Reset(s.keepAlive)
			if ctx.Err() != nil {
				return nil
			}
			if err := sink.Send(sse.Event{Event: EventPing, Data: pingData}); err != nil {
				return fmt.Errorf("send ping: %w", err)
			}
			s.metrics.Ping()
		}
	}
}

// Close releases the subscription. Run calls it on return; callers that
// never reach Run must call it themselves.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.sub.Close()
		s.metrics.SessionClosed()
	})
}

func (s *Session) event(m dom.Mutation) (sse.Event, error) {
	switch m := m.(type) {
	case dom.Created:
		data, err := s.renderer.Todo(m.Todo)
		if err != nil {
			return sse.Event{}, err
		}
		return sse.Event{Id: formatID(m.Todo.ID), Event: dom.KindCreate, Data: data}, nil
	case dom.Updated:
		data, err := s.renderer.Todo(m.Todo)
		if err != nil {
			return sse.Event{}, err
		}
		return sse.Event{Id: formatID(m.Todo.ID), Event: UpdateEvent(m.Todo.ID), Data: data}, nil
	case dom.Deleted:
		return sse.Event{Id: formatID(m.ID), Event: dom.KindDelete, Data: formatID(m.ID)}, nil
	default:
		return sse.Event{}, fmt.Errorf("unknown mutation %T", m)
	}
}

// UpdateEvent is the event label for updates of one todo, so a page can
// listen for changes of a single row.
func UpdateEvent(id int64) string {
	return dom.KindUpdate + "-" + formatID(id)
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
