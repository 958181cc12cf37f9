package projection

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/bazaarlink/internal/domain/order"
	"github.com/example/bazaarlink/internal/domain/product"
	"github.com/example/bazaarlink/internal/domain/review"
	"github.com/example/bazaarlink/internal/domain/user"
	"github.com/example/bazaarlink/internal/infrastructure/store"
	"github.com/example/bazaarlink/internal/readmodel"
)

type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

// HandleEvent dispatches a serialized event to its read model handler.
// Used both as the Kafka consumer callback and for in-process replay.
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	return p.Project(event)
}

// Project applies one event to the read models
func (p *Projector) Project(event store.Event) error {
	log.Printf("[Projector] Received event: %s (aggregate: %s)", event.EventType, event.AggregateType)

	switch event.AggregateType {
	case product.AggregateType:
		return p.handleProductEvent(event)
	case order.AggregateType:
		return p.handleOrderEvent(event)
	case user.AggregateType:
		return p.handleUserEvent(event)
	case review.AggregateType:
		return p.handleReviewEvent(event)
	}

	return nil
}

// Rebuild replays the whole event log into the read models, in version order
// per aggregate. Used at startup when consuming from a fresh store.
func (p *Projector) Rebuild(events []store.Event) error {
	for _, event := range events {
		if err := p.Project(event); err != nil {
			return err
		}
	}
	return nil
}

func (p *Projector) handleProductEvent(event store.Event) error {
	switch event.EventType {
	case product.EventProductCreated:
		var e product.ProductCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Set(store.CollectionProducts, e.ProductID, &readmodel.ProductReadModel{
			ID:                e.ProductID,
			SupplierID:        e.SupplierID,
			Name:              e.Name,
			Unit:              e.Unit,
			Price:             e.Price,
			Stock:             e.Stock,
			LowStockThreshold: e.LowStockThreshold,
			IsAvailable:       e.Stock > 0,
			CreatedAt:         e.CreatedAt,
			UpdatedAt:         e.CreatedAt,
		})

	case product.EventProductPriceUpdated:
		var e product.ProductPriceUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.updateProduct(e.ProductID, func(prod *readmodel.ProductReadModel) {
			prod.Price = e.Price
			prod.UpdatedAt = e.UpdatedAt
		})

	case product.EventThresholdChanged:
		var e product.ThresholdChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.updateProduct(e.ProductID, func(prod *readmodel.ProductReadModel) {
			prod.LowStockThreshold = e.LowStockThreshold
			prod.UpdatedAt = e.UpdatedAt
		})

	case product.EventStockOrdered:
		var e product.StockOrdered
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.updateProduct(e.ProductID, func(prod *readmodel.ProductReadModel) {
			prod.Stock = e.NewStock
			prod.IsAvailable = e.NewStock > 0
			prod.UpdatedAt = e.OrderedAt
		})

	case product.EventStockRestocked:
		var e product.StockRestocked
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.updateProduct(e.ProductID, func(prod *readmodel.ProductReadModel) {
			prod.Stock = e.NewStock
			prod.IsAvailable = e.NewStock > 0
			prod.UpdatedAt = e.RestockedAt
		})

	case product.EventStockAdjusted:
		var e product.StockAdjusted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.updateProduct(e.ProductID, func(prod *readmodel.ProductReadModel) {
			prod.Stock = e.NewStock
			prod.IsAvailable = e.NewStock > 0
			prod.UpdatedAt = e.AdjustedAt
		})
	}

	return nil
}

func (p *Projector) updateProduct(productID string, apply func(*readmodel.ProductReadModel)) error {
	_, err := p.readStore.Update(store.CollectionProducts, productID, func(current any) any {
		prod := current.(*readmodel.ProductReadModel)
		apply(prod)
		return prod
	})
	return err
}

func (p *Projector) handleOrderEvent(event store.Event) error {
	switch event.EventType {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		items := make([]readmodel.OrderItemReadModel, len(e.Items))
		for i, item := range e.Items {
			items[i] = readmodel.OrderItemReadModel{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			}
		}
		return p.readStore.Set(store.CollectionOrders, e.OrderID, &readmodel.OrderReadModel{
			ID:         e.OrderID,
			VendorID:   e.VendorID,
			SupplierID: e.SupplierID,
			Kind:       string(e.Kind),
			Status:     string(order.StatusPending),
			Items:      items,
			Total:      e.Total,
			CreatedAt:  e.PlacedAt,
			UpdatedAt:  e.PlacedAt,
		})

	case order.EventOrderConfirmed:
		var e order.OrderConfirmed
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update(store.CollectionOrders, e.OrderID, func(current any) any {
			o := current.(*readmodel.OrderReadModel)
			o.Status = string(order.StatusConfirmed)
			o.UpdatedAt = e.ConfirmedAt
			return o
		})
		return err

	case order.EventOrderDelivered:
		var e order.OrderDelivered
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update(store.CollectionOrders, e.OrderID, func(current any) any {
			o := current.(*readmodel.OrderReadModel)
			o.Status = string(order.StatusDelivered)
			o.UpdatedAt = e.DeliveredAt
			return o
		})
		return err
	}

	return nil
}

func (p *Projector) handleUserEvent(event store.Event) error {
	switch event.EventType {
	case user.EventUserRegistered:
		var e user.UserRegistered
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Set(store.CollectionUsers, e.UserID, &readmodel.UserReadModel{
			ID:           e.UserID,
			Name:         e.Name,
			Phone:        e.Phone,
			Location:     e.Location,
			Email:        e.Email,
			PasswordHash: e.PasswordHash,
			Role:         e.Role,
			CreatedAt:    e.CreatedAt,
			UpdatedAt:    e.CreatedAt,
		})

	case user.EventKYCSubmitted:
		var e user.KYCSubmitted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update(store.CollectionUsers, e.UserID, func(current any) any {
			u := current.(*readmodel.UserReadModel)
			u.KYCAadhaar = e.Aadhaar
			u.KYCGstin = e.Gstin
			u.UpdatedAt = e.SubmittedAt
			return u
		})
		return err
	}

	// Login/logout events carry no read model state
	return nil
}

func (p *Projector) handleReviewEvent(event store.Event) error {
	switch event.EventType {
	case review.EventReviewLeft:
		var e review.ReviewLeft
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Set(store.CollectionReviews, e.ReviewID, &readmodel.ReviewReadModel{
			ID:         e.ReviewID,
			VendorID:   e.VendorID,
			SupplierID: e.SupplierID,
			Rating:     e.Rating,
			Comment:    e.Comment,
			CreatedAt:  e.LeftAt,
		})
	}

	return nil
}
