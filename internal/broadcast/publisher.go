package broadcast

import (
	"log/slog"

	dom "github.com/birlikkoshan/todo-live/internal/domain"
	"github.com/birlikkoshan/todo-live/internal/metrics"
)

// Publisher turns successful store writes into bus mutations. Publishing is
// best-effort: failures are logged and never reach the caller.
type Publisher struct {
	bus     *Bus
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewPublisher(bus *Bus, logger *slog.Logger, m *metrics.Metrics) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{bus: bus, logger: logger, metrics: m}
}

func (p *Publisher) PublishCreate(t dom.Todo) { p.publish(dom.Created{Todo: t}) }

func (p *Publisher) PublishUpdate(t dom.Todo) { p.publish(dom.Updated{Todo: t}) }

func (p *Publisher) PublishDelete(id int64) { p.publish(dom.Deleted{ID: id}) }

func (p *Publisher) publish(m dom.Mutation) {
	n, err := p.bus.Publish(m)
	if err != nil {
		p.metrics.PublishFailed()
		p.logger.Warn("mutation not published", "kind", m.Kind(), "todo_id", m.TodoID(), "err", err)
		return
	}
	p.metrics.Published(m.Kind())
	p.logger.Debug("mutation published", "kind", m.Kind(), "todo_id", m.TodoID(), "subscribers", n)
}
