// Package feed carries the realtime change feed: every write publishes a
// ChangeEvent and consumers re-read the affected table in full.
package feed

import (
	"encoding/json"
	"time"
)

const (
	TopicChanges = "dashboard.changes"

	EventTableChanged = "TableChanged"
)

// Tables that publish changes.
const (
	TableMembers    = "members"
	TablePlans      = "plans"
	TableProducts   = "products"
	TableBrands     = "brands"
	TableCategories = "categories"
	TableBarbers    = "barbers"
	TableSales      = "sales"
)

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	TraceID      string          `json:"trace_id,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

type ChangeEvent struct {
	Table string `json:"table"`
	Op    Op     `json:"op"`
	ID    string `json:"id,omitempty"`
}

// dependents lists, per table, the other tables whose cached reads go stale
// when it changes: a sale moves product stock, members embed plan titles.
var dependents = map[string][]string{
	TableSales:      {TableProducts},
	TablePlans:      {TableMembers},
	TableBrands:     {TableProducts},
	TableCategories: {TableProducts},
}

// Affected returns table plus every table whose reads depend on it.
func Affected(table string) []string {
	return append([]string{table}, dependents[table]...)
}

// PartitionKey keeps the events of one table ordered.
func PartitionKey(table string) []byte { return []byte(table) }
