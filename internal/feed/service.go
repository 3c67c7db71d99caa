package feed

import (
	"context"
	"encoding/json"
	"fmt"

	kafkax "github.com/ariefcatur/barbershop-dashboard/internal/kafka"
	"github.com/ariefcatur/barbershop-dashboard/internal/obs"
	kafkago "github.com/segmentio/kafka-go"
)

// Invalidator drops cached reads of a table.
type Invalidator interface {
	Invalidate(ctx context.Context, table string) error
}

// Deduper reports whether an event id is seen for the first time.
type Deduper func(ctx context.Context, service, id string) (bool, error)

// Forgetter releases an id claimed by a Deduper so a redelivery is handled
// again.
type Forgetter func(ctx context.Context, service, id string) error

// Service turns change events into cache invalidations. Every event causes
// a full refetch of the affected lists; no diff is applied.
type Service struct {
	Cache       Invalidator
	Seen        Deduper
	Forget      Forgetter
	ServiceName string
}

// HandleChange is installed as the consumer handler.
func (s *Service) HandleChange(ctx context.Context, m kafkago.Message) error {
	var env Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		obs.Logger.Warn("dropping undecodable event", "offset", m.Offset, "err", err)
		return nil
	}
	if env.EventType != EventTableChanged {
		return nil
	}

	claimed := false
	if s.Seen != nil && env.EventID != "" {
		first, err := s.Seen(ctx, s.ServiceName, env.EventID)
		if err != nil {
			obs.Logger.Warn("dedup lookup failed", "event_id", env.EventID, "err", err)
		} else if !first {
			return nil
		}
		claimed = err == nil
	}

	ch, err := kafkax.UnwrapPayload[ChangeEvent](env.Payload)
	if err != nil {
		obs.Logger.Warn("dropping event with bad payload", "event_id", env.EventID, "err", err)
		return nil
	}
	if ch.Table == "" {
		return nil
	}

	for _, table := range Affected(ch.Table) {
		if err := s.Cache.Invalidate(ctx, table); err != nil {
			if claimed && s.Forget != nil {
				if ferr := s.Forget(ctx, s.ServiceName, env.EventID); ferr != nil {
					obs.Logger.Error("dedup release failed", "event_id", env.EventID, "err", ferr)
				}
			}
			return fmt.Errorf("invalidate %s: %w", table, err)
		}
	}
	obs.Logger.Info("table changed", "table", ch.Table, "op", ch.Op, "id", ch.ID, "trace_id", env.TraceID)
	return nil
}
