package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/bazaarlink/internal/domain/aggregate"
	"github.com/example/bazaarlink/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Product"

// DefaultLowStockThreshold applies when a product is created without an
// explicit threshold.
const DefaultLowStockThreshold = 10

// maxDecrementRetries bounds how often a stock mutation re-reads and retries
// after losing a conditional append to a concurrent writer.
const maxDecrementRetries = 5

// Product is the stock ledger aggregate. Its stock-mutating events are the
// ledger entries: one event is one quantity change plus one history entry,
// committed together.
type Product struct {
	ID                string    `json:"id"`
	SupplierID        string    `json:"supplier_id"`
	Name              string    `json:"name"`
	Unit              string    `json:"unit"`
	Price             int       `json:"price"`
	Stock             int       `json:"stock"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	IsAvailable       bool      `json:"is_available"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Version           int       `json:"version"`
}

func (p *Product) GetID() string       { return p.ID }
func (p *Product) GetVersion() int     { return p.Version }
func (p *Product) SetVersion(v int)    { p.Version = v }

// IsLowStock reports whether stock has fallen to or below the threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// ApplyEvent applies a single event to the product state
func (p *Product) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventProductCreated:
		var data ProductCreated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.ID = data.ProductID
		p.SupplierID = data.SupplierID
		p.Name = data.Name
		p.Unit = data.Unit
		p.Price = data.Price
		p.Stock = data.Stock
		p.LowStockThreshold = data.LowStockThreshold
		p.CreatedAt = data.CreatedAt
		p.UpdatedAt = data.CreatedAt
	case EventProductPriceUpdated:
		var data ProductPriceUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Price = data.Price
		p.UpdatedAt = data.UpdatedAt
	case EventThresholdChanged:
		var data ThresholdChanged
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.LowStockThreshold = data.LowStockThreshold
		p.UpdatedAt = data.UpdatedAt
	case EventStockOrdered:
		var data StockOrdered
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Stock = data.NewStock
		p.UpdatedAt = data.OrderedAt
	case EventStockRestocked:
		var data StockRestocked
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Stock = data.NewStock
		p.UpdatedAt = data.RestockedAt
	case EventStockAdjusted:
		var data StockAdjusted
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		p.Stock = data.NewStock
		p.UpdatedAt = data.AdjustedAt
	}
	p.IsAvailable = p.Stock > 0
	p.Version = event.Version
	return nil
}

// HistoryAction classifies a ledger entry
type HistoryAction string

const (
	ActionOrdered   HistoryAction = "ordered"
	ActionRestocked HistoryAction = "restocked"
	ActionAdjusted  HistoryAction = "adjusted"
)

// HistoryEntry is one line of the stock ledger. Quantity is the signed
// delta, so NewStock == PreviousStock + Quantity for every entry.
type HistoryEntry struct {
	Action        HistoryAction `json:"action"`
	Quantity      int           `json:"quantity"`
	PreviousStock int           `json:"previous_stock"`
	NewStock      int           `json:"new_stock"`
	Timestamp     time.Time     `json:"timestamp"`
	OrderID       string        `json:"order_id,omitempty"`
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) load(ctx context.Context, productID string) (*Product, error) {
	p, found, err := aggregate.LoadAggregate(ctx, s.eventStore, productID, func() *Product {
		return &Product{}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return p, nil
}

// Get returns the current product state rebuilt from its events
func (s *Service) Get(ctx context.Context, productID string) (*Product, error) {
	return s.load(ctx, productID)
}

func (s *Service) Create(ctx context.Context, supplierID, name, unit string, price, stock, lowStockThreshold int) (*Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}

	productID := uuid.New().String()
	now := time.Now()

	event := ProductCreated{
		ProductID:         productID,
		SupplierID:        supplierID,
		Name:              name,
		Unit:              unit,
		Price:             price,
		Stock:             stock,
		LowStockThreshold: lowStockThreshold,
		CreatedAt:         now,
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductCreated, event)
	if err != nil {
		return nil, err
	}

	return &Product{
		ID:                productID,
		SupplierID:        supplierID,
		Name:              name,
		Unit:              unit,
		Price:             price,
		Stock:             stock,
		LowStockThreshold: lowStockThreshold,
		IsAvailable:       stock > 0,
		CreatedAt:         now,
		UpdatedAt:         now,
		Version:           1,
	}, nil
}

func (s *Service) UpdatePrice(ctx context.Context, productID string, price int) error {
	if price <= 0 {
		return ErrInvalidPrice
	}

	p, err := s.load(ctx, productID)
	if err != nil {
		return err
	}

	event := ProductPriceUpdated{
		ProductID: productID,
		Price:     price,
		UpdatedAt: time.Now(),
	}

	storedEvent, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductPriceUpdated, event)
	if err != nil {
		return err
	}

	p.Price = price
	p.Version = storedEvent.Version
	return aggregate.MaybeCreateSnapshot(ctx, s.eventStore, p, AggregateType)
}

// Decrement consumes quantity units of stock for an order. The append is
// conditional on the version the validation saw, so a concurrent writer
// forces a re-read and re-validation instead of a lost update. Of two
// concurrent decrements racing for marginal stock, exactly one succeeds.
func (s *Service) Decrement(ctx context.Context, productID string, quantity int, orderID string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	p, err := s.load(ctx, productID)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxDecrementRetries; attempt++ {
		if !p.IsAvailable {
			return &InsufficientStockError{
				ProductID:   productID,
				Name:        p.Name,
				Available:   p.Stock,
				Requested:   quantity,
				Unavailable: true,
			}
		}
		if p.Stock < quantity {
			return &InsufficientStockError{
				ProductID: productID,
				Name:      p.Name,
				Available: p.Stock,
				Requested: quantity,
			}
		}

		event := StockOrdered{
			ProductID:     productID,
			OrderID:       orderID,
			Quantity:      -quantity,
			PreviousStock: p.Stock,
			NewStock:      p.Stock - quantity,
			OrderedAt:     time.Now(),
		}

		storedEvent, err := s.eventStore.AppendExpecting(ctx, productID, AggregateType, EventStockOrdered, event, p.Version)
		if errors.Is(err, store.ErrVersionConflict) {
			if p, err = s.load(ctx, productID); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		p.Stock = event.NewStock
		p.IsAvailable = p.Stock > 0
		p.Version = storedEvent.Version
		return aggregate.MaybeCreateSnapshot(ctx, s.eventStore, p, AggregateType)
	}

	return store.ErrVersionConflict
}

// Restock adds quantity units of stock
func (s *Service) Restock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	p, err := s.load(ctx, productID)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxDecrementRetries; attempt++ {
		event := StockRestocked{
			ProductID:     productID,
			Quantity:      quantity,
			PreviousStock: p.Stock,
			NewStock:      p.Stock + quantity,
			RestockedAt:   time.Now(),
		}

		storedEvent, err := s.eventStore.AppendExpecting(ctx, productID, AggregateType, EventStockRestocked, event, p.Version)
		if errors.Is(err, store.ErrVersionConflict) {
			if p, err = s.load(ctx, productID); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		p.Stock = event.NewStock
		p.IsAvailable = p.Stock > 0
		p.Version = storedEvent.Version
		return aggregate.MaybeCreateSnapshot(ctx, s.eventStore, p, AggregateType)
	}

	return store.ErrVersionConflict
}

// Adjust sets stock to an absolute quantity and optionally moves the
// low-stock threshold. A zero delta appends no stock event; a threshold-only
// change persists without touching the ledger. When nothing changed, nothing
// is appended at all.
func (s *Service) Adjust(ctx context.Context, productID string, newStock int, newThreshold *int) error {
	if newStock < 0 {
		return ErrInvalidStock
	}
	if newThreshold != nil && *newThreshold < 0 {
		return ErrInvalidStock
	}

	p, err := s.load(ctx, productID)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxDecrementRetries; attempt++ {
		delta := newStock - p.Stock

		if delta != 0 {
			event := StockAdjusted{
				ProductID:     productID,
				Quantity:      delta,
				PreviousStock: p.Stock,
				NewStock:      newStock,
				AdjustedAt:    time.Now(),
			}

			storedEvent, err := s.eventStore.AppendExpecting(ctx, productID, AggregateType, EventStockAdjusted, event, p.Version)
			if errors.Is(err, store.ErrVersionConflict) {
				if p, err = s.load(ctx, productID); err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}

			p.Stock = newStock
			p.IsAvailable = p.Stock > 0
			p.Version = storedEvent.Version
		}

		if newThreshold != nil && *newThreshold != p.LowStockThreshold {
			event := ThresholdChanged{
				ProductID:         productID,
				LowStockThreshold: *newThreshold,
				UpdatedAt:         time.Now(),
			}

			storedEvent, err := s.eventStore.Append(ctx, productID, AggregateType, EventThresholdChanged, event)
			if err != nil {
				return err
			}

			p.LowStockThreshold = *newThreshold
			p.Version = storedEvent.Version
		}

		return aggregate.MaybeCreateSnapshot(ctx, s.eventStore, p, AggregateType)
	}

	return store.ErrVersionConflict
}

// History returns the stock ledger in chronological order. Creation sets the
// initial quantity and is not a ledger entry; threshold and price changes do
// not appear either.
func (s *Service) History(ctx context.Context, productID string) ([]HistoryEntry, error) {
	events := s.eventStore.GetEvents(productID)
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	entries := make([]HistoryEntry, 0)
	for _, event := range events {
		switch event.EventType {
		case EventStockOrdered:
			var data StockOrdered
			if err := json.Unmarshal(event.Data, &data); err != nil {
				return nil, err
			}
			entries = append(entries, HistoryEntry{
				Action:        ActionOrdered,
				Quantity:      data.Quantity,
				PreviousStock: data.PreviousStock,
				NewStock:      data.NewStock,
				Timestamp:     data.OrderedAt,
				OrderID:       data.OrderID,
			})
		case EventStockRestocked:
			var data StockRestocked
			if err := json.Unmarshal(event.Data, &data); err != nil {
				return nil, err
			}
			entries = append(entries, HistoryEntry{
				Action:        ActionRestocked,
				Quantity:      data.Quantity,
				PreviousStock: data.PreviousStock,
				NewStock:      data.NewStock,
				Timestamp:     data.RestockedAt,
			})
		case EventStockAdjusted:
			var data StockAdjusted
			if err := json.Unmarshal(event.Data, &data); err != nil {
				return nil, err
			}
			entries = append(entries, HistoryEntry{
				Action:        ActionAdjusted,
				Quantity:      data.Quantity,
				PreviousStock: data.PreviousStock,
				NewStock:      data.NewStock,
				Timestamp:     data.AdjustedAt,
			})
		}
	}
	return entries, nil
}
