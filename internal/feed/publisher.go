package feed

import (
	"context"
	"time"

	kafkax "github.com/ariefcatur/barbershop-dashboard/internal/kafka"
	"github.com/ariefcatur/barbershop-dashboard/internal/obs"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher announces that a table changed.
type Publisher interface {
	Changed(ctx context.Context, table string, op Op, id string)
}

// Sink is satisfied by *kafka.Producer.
type Sink interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type KafkaPublisher struct {
	Sink     Sink
	Producer string
}

type traceKey struct{}

// WithTrace attaches a trace id (usually the request id) to published events.
func WithTrace(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func (p *KafkaPublisher) Changed(ctx context.Context, table string, op Op, id string) {
	trace, _ := ctx.Value(traceKey{}).(string)
	ev := Envelope{
		EventID:      uuid.NewString(),
		EventType:    EventTableChanged,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     p.Producer,
		TraceID:      trace,
		Payload:      kafkax.MustMarshal(ChangeEvent{Table: table, Op: op, ID: id}),
	}
	p.Sink.Publish(PartitionKey(table), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventTableChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	obs.Logger.Debug("change published", "table", table, "op", op, "id", id, "event_id", ev.EventID)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Changed(context.Context, string, Op, string) {}

// InvalidatingPublisher drops the local cache of every affected table before
// forwarding to Next, so a writer reads its own change without waiting for
// the feed consumer.
type InvalidatingPublisher struct {
	Cache Invalidator
	Next  Publisher
}

func (p *InvalidatingPublisher) Changed(ctx context.Context, table string, op Op, id string) {
	if p.Cache != nil {
		for _, t := range Affected(table) {
			if err := p.Cache.Invalidate(ctx, t); err != nil {
				obs.Logger.Warn("local invalidate failed", "table", t, "err", err)
			}
		}
	}
	if p.Next != nil {
		p.Next.Changed(ctx, table, op, id)
	}
}
