package store

import (
	"context"
	"errors"
)

// ErrVersionConflict is returned by AppendExpecting when the aggregate has
// advanced past the expected version. Callers re-load, re-validate and retry.
var ErrVersionConflict = errors.New("aggregate version conflict")

// EventStoreInterface defines the interface for event stores
type EventStoreInterface interface {
	// Append stores an event at the aggregate's next version.
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)

	// AppendExpecting stores an event only if the aggregate is still at
	// expectedVersion, failing with ErrVersionConflict otherwise. This is the
	// guard that serializes concurrent stock decrements on one product.
	AppendExpecting(ctx context.Context, aggregateID, aggregateType, eventType string, data any, expectedVersion int) (*Event, error)

	GetEvents(aggregateID string) []Event
	GetAllEvents() []Event
	GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []Event

	GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
}
