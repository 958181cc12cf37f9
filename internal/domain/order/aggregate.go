package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/bazaarlink/internal/domain/aggregate"
	"github.com/example/bazaarlink/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Order"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
)

// Kind distinguishes a vendor's own order from one joined through a group buy
type Kind string

const (
	KindIndividual Kind = "individual"
	KindGroup      Kind = "group"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order must have at least one item")
	ErrInvalidStatus     = errors.New("invalid order status transition")
	ErrOrderDelivered    = errors.New("order is already delivered")
	ErrInvalidItemAmount = errors.New("item quantity must be positive")
)

// validTransitions defines allowed state transitions. Status only moves
// forward: a delivered order never changes again.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusDelivered},
	StatusConfirmed: {StatusDelivered},
	StatusDelivered: {}, // terminal state
}

// CanTransitionTo checks if the order can transition to the target status
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// transitionError returns an appropriate error for an invalid transition
func (o *Order) transitionError(target Status) error {
	if o.Status == StatusDelivered {
		return ErrOrderDelivered
	}
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatus, o.Status, target)
}

type Order struct {
	ID         string      `json:"id"`
	VendorID   string      `json:"vendor_id"`
	SupplierID string      `json:"supplier_id"`
	Kind       Kind        `json:"type"`
	Items      []OrderItem `json:"items"`
	Total      int         `json:"total"`
	Status     Status      `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Version    int         `json:"version"` // Current event version
}

// Aggregate interface implementation
func (o *Order) GetID() string    { return o.ID }
func (o *Order) GetVersion() int  { return o.Version }
func (o *Order) SetVersion(v int) { o.Version = v }

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// ApplyEvent applies a single event to the order state (implements aggregate.Aggregate)
func (o *Order) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventOrderPlaced:
		var data OrderPlaced
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.ID = data.OrderID
		o.VendorID = data.VendorID
		o.SupplierID = data.SupplierID
		o.Kind = data.Kind
		o.Items = data.Items
		o.Total = data.Total
		o.Status = StatusPending
		o.CreatedAt = data.PlacedAt
		o.UpdatedAt = data.PlacedAt
	case EventOrderConfirmed:
		var data OrderConfirmed
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = StatusConfirmed
		o.UpdatedAt = data.ConfirmedAt
	case EventOrderDelivered:
		var data OrderDelivered
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = StatusDelivered
		o.UpdatedAt = data.DeliveredAt
	}
	o.Version = event.Version
	return nil
}

// Get loads an order by replaying events, using snapshot if available
func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	order, found, err := aggregate.LoadAggregate(ctx, s.eventStore, orderID, func() *Order {
		return &Order{}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) Place(ctx context.Context, vendorID, supplierID string, kind Kind, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidItemAmount
		}
	}
	if kind == "" {
		kind = KindIndividual
	}

	orderID := uuid.New().String()
	now := time.Now()

	var total int
	for _, item := range items {
		total += item.Price * item.Quantity
	}

	event := OrderPlaced{
		OrderID:    orderID,
		VendorID:   vendorID,
		SupplierID: supplierID,
		Kind:       kind,
		Items:      items,
		Total:      total,
		PlacedAt:   now,
	}

	storedEvent, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderPlaced, event)
	if err != nil {
		return nil, err
	}

	version := 0
	if storedEvent != nil {
		version = storedEvent.Version
	}

	order := &Order{
		ID:         orderID,
		VendorID:   vendorID,
		SupplierID: supplierID,
		Kind:       kind,
		Items:      items,
		Total:      total,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    version,
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, order, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", order.ID, err)
	}

	return order, nil
}

func (s *Service) Confirm(ctx context.Context, orderID string) error {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.CanTransitionTo(StatusConfirmed) {
		return order.transitionError(StatusConfirmed)
	}

	event := OrderConfirmed{
		OrderID:     orderID,
		ConfirmedAt: time.Now(),
	}

	storedEvent, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderConfirmed, event)
	if err != nil {
		return err
	}

	order.Status = StatusConfirmed
	if storedEvent != nil {
		order.Version = storedEvent.Version
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, order, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", order.ID, err)
	}

	return nil
}

// Deliver marks the order delivered. Legal from pending or confirmed; a
// supplier may fulfill directly without a confirmation step.
func (s *Service) Deliver(ctx context.Context, orderID string) error {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.CanTransitionTo(StatusDelivered) {
		return order.transitionError(StatusDelivered)
	}

	event := OrderDelivered{
		OrderID:     orderID,
		DeliveredAt: time.Now(),
	}

	storedEvent, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderDelivered, event)
	if err != nil {
		return err
	}

	order.Status = StatusDelivered
	if storedEvent != nil {
		order.Version = storedEvent.Version
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, order, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", order.ID, err)
	}

	return nil
}
