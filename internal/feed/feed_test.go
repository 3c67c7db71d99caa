package feed

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkax "github.com/ariefcatur/barbershop-dashboard/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	keys   [][]byte
	values [][]byte
	hdrs   [][]kafkago.Header
}

func (c *captureSink) Publish(key, value []byte, headers ...kafkago.Header) {
	c.keys = append(c.keys, key)
	c.values = append(c.values, value)
	c.hdrs = append(c.hdrs, headers)
}

type recordingCache struct {
	tables []string
	err    error
}

func (r *recordingCache) Invalidate(_ context.Context, table string) error {
	if r.err != nil {
		return r.err
	}
	r.tables = append(r.tables, table)
	return nil
}

func TestKafkaPublisherEnvelope(t *testing.T) {
	sink := &captureSink{}
	p := &KafkaPublisher{Sink: sink, Producer: "barbershop-api"}

	p.Changed(WithTrace(context.Background(), "req-1"), TableSales, OpInsert, "s-1")

	require.Len(t, sink.values, 1)
	assert.Equal(t, []byte(TableSales), sink.keys[0])
	assert.Equal(t, "x-event-type", sink.hdrs[0][0].Key)

	var env Envelope
	require.NoError(t, json.Unmarshal(sink.values[0], &env))
	assert.Equal(t, EventTableChanged, env.EventType)
	assert.Equal(t, "barbershop-api", env.Producer)
	assert.Equal(t, "req-1", env.TraceID)
	assert.NotEmpty(t, env.EventID)

	ch, err := kafkax.UnwrapPayload[ChangeEvent](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, ChangeEvent{Table: TableSales, Op: OpInsert, ID: "s-1"}, ch)
}

func TestHandleChangeInvalidatesAffectedTables(t *testing.T) {
	sink := &captureSink{}
	(&KafkaPublisher{Sink: sink, Producer: "api"}).Changed(context.Background(), TableSales, OpInsert, "s-9")

	cache := &recordingCache{}
	svc := &Service{Cache: cache, ServiceName: "feed"}

	require.NoError(t, svc.HandleChange(context.Background(), kafkago.Message{Value: sink.values[0]}))
	assert.Equal(t, []string{TableSales, TableProducts}, cache.tables)
}

func TestHandleChangeSkipsDuplicates(t *testing.T) {
	sink := &captureSink{}
	(&KafkaPublisher{Sink: sink, Producer: "api"}).Changed(context.Background(), TableMembers, OpUpdate, "m-1")
	msg := kafkago.Message{Value: sink.values[0]}

	seen := map[string]bool{}
	cache := &recordingCache{}
	svc := &Service{
		Cache:       cache,
		ServiceName: "feed",
		Seen: func(_ context.Context, service, id string) (bool, error) {
			k := service + ":" + id
			if seen[k] {
				return false, nil
			}
			seen[k] = true
			return true, nil
		},
	}

	require.NoError(t, svc.HandleChange(context.Background(), msg))
	require.NoError(t, svc.HandleChange(context.Background(), msg))
	assert.Equal(t, []string{TableMembers}, cache.tables)
}

func TestHandleChangeIgnoresGarbage(t *testing.T) {
	cache := &recordingCache{}
	svc := &Service{Cache: cache}

	assert.NoError(t, svc.HandleChange(context.Background(), kafkago.Message{Value: []byte("not json")}))
	assert.NoError(t, svc.HandleChange(context.Background(), kafkago.Message{Value: []byte(`{"event_type":"Other"}`)}))
	assert.Empty(t, cache.tables)
}

func TestHandleChangeReportsInvalidateFailure(t *testing.T) {
	sink := &captureSink{}
	(&KafkaPublisher{Sink: sink, Producer: "api"}).Changed(context.Background(), TablePlans, OpUpdate, "p-1")

	svc := &Service{Cache: &recordingCache{err: errors.New("redis down")}}
	err := svc.HandleChange(context.Background(), kafkago.Message{Value: sink.values[0]})
	assert.ErrorContains(t, err, "invalidate plans")
}

func TestAffected(t *testing.T) {
	assert.Equal(t, []string{TablePlans, TableMembers}, Affected(TablePlans))
	assert.Equal(t, []string{TableBarbers}, Affected(TableBarbers))
}

type flakyCache struct {
	failures int
	tables   []string
}

func (f *flakyCache) Invalidate(_ context.Context, table string) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("redis blip")
	}
	f.tables = append(f.tables, table)
	return nil
}

func TestHandleChangeRedeliveryAfterInvalidateFailure(t *testing.T) {
	sink := &captureSink{}
	(&KafkaPublisher{Sink: sink, Producer: "api"}).Changed(context.Background(), TableMembers, OpInsert, "m-2")
	msg := kafkago.Message{Value: sink.values[0]}

	seen := map[string]bool{}
	cache := &flakyCache{failures: 1}
	svc := &Service{
		Cache:       cache,
		ServiceName: "feed",
		Seen: func(_ context.Context, service, id string) (bool, error) {
			k := service + ":" + id
			if seen[k] {
				return false, nil
			}
			seen[k] = true
			return true, nil
		},
		Forget: func(_ context.Context, service, id string) error {
			delete(seen, service+":"+id)
			return nil
		},
	}

	assert.ErrorContains(t, svc.HandleChange(context.Background(), msg), "redis blip")
	require.NoError(t, svc.HandleChange(context.Background(), msg))
	assert.Equal(t, []string{TableMembers}, cache.tables)

	require.NoError(t, svc.HandleChange(context.Background(), msg))
	assert.Equal(t, []string{TableMembers}, cache.tables, "handled once")
}

type recordingPublisher struct{ tables []string }

func (r *recordingPublisher) Changed(_ context.Context, table string, _ Op, _ string) {
	r.tables = append(r.tables, table)
}

func TestInvalidatingPublisher(t *testing.T) {
	cache := &recordingCache{}
	next := &recordingPublisher{}
	p := &InvalidatingPublisher{Cache: cache, Next: next}

	p.Changed(context.Background(), TableSales, OpInsert, "s-1")
	assert.Equal(t, []string{TableSales, TableProducts}, cache.tables)
	assert.Equal(t, []string{TableSales}, next.tables)

	// a cache outage still forwards the event
	cache.err = errors.New("redis down")
	p.Changed(context.Background(), TableBarbers, OpUpdate, "b-1")
	assert.Equal(t, []string{TableSales, TableBarbers}, next.tables)
}
