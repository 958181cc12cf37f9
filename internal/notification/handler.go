package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/bazaarlink/internal/domain/order"
	"github.com/example/bazaarlink/internal/domain/product"
	"github.com/example/bazaarlink/internal/email"
	"github.com/example/bazaarlink/internal/infrastructure/store"
	"github.com/example/bazaarlink/internal/readmodel"
)

// Handler processes events for sending supplier notifications
type Handler struct {
	emailService *email.Service
	readStore    store.ReadStoreInterface
}

// NewHandler creates a new notification handler
func NewHandler(emailSvc *email.Service, readStore store.ReadStoreInterface) *Handler {
	return &Handler{
		emailService: emailSvc,
		readStore:    readStore,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	switch event.EventType {
	case order.EventOrderPlaced:
		return h.handleOrderPlaced(event)
	case product.EventStockOrdered, product.EventStockAdjusted:
		return h.maybeLowStockAlert(event)
	}

	return nil
}

func (h *Handler) handleOrderPlaced(event store.Event) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderPlaced event for order %s, supplier %s", e.OrderID, e.SupplierID)

	supplier := h.getUser(e.SupplierID)
	if supplier == nil || supplier.Email == "" {
		log.Printf("[Notifier] No email address for supplier %s, skipping", e.SupplierID)
		return nil
	}

	vendorName := e.VendorID
	if vendor := h.getUser(e.VendorID); vendor != nil {
		vendorName = vendor.Name
	}

	emailItems := make([]email.OrderItem, len(e.Items))
	for i, item := range e.Items {
		productName := item.ProductID
		if data, exists, _ := h.readStore.Get(store.CollectionProducts, item.ProductID); exists {
			if prod, ok := data.(*readmodel.ProductReadModel); ok {
				productName = prod.Name
			}
		}

		emailItems[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      productName,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	if err := h.emailService.SendNewOrder(supplier.Email, e.OrderID, vendorName, e.Total, emailItems); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", supplier.Email, err)
		return err
	}

	log.Printf("[Notifier] New order email sent to %s for order %s", supplier.Email, e.OrderID)
	return nil
}

// maybeLowStockAlert alerts the supplier when a stock movement drops a
// product to or below its threshold. Restocks never trigger it.
func (h *Handler) maybeLowStockAlert(event store.Event) error {
	var e struct {
		ProductID string `json:"product_id"`
		NewStock  int    `json:"new_stock"`
	}
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal stock event: %v", err)
		return err
	}

	data, exists, err := h.readStore.Get(store.CollectionProducts, e.ProductID)
	if err != nil || !exists {
		return nil
	}
	prod, ok := data.(*readmodel.ProductReadModel)
	if !ok || e.NewStock > prod.LowStockThreshold {
		return nil
	}

	supplier := h.getUser(prod.SupplierID)
	if supplier == nil || supplier.Email == "" {
		return nil
	}

	if err := h.emailService.SendLowStockAlert(supplier.Email, prod.Name, e.NewStock, prod.LowStockThreshold); err != nil {
		log.Printf("[Notifier] Failed to send low stock alert to %s: %v", supplier.Email, err)
		return err
	}

	log.Printf("[Notifier] Low stock alert sent to %s for product %s (%d left)", supplier.Email, prod.Name, e.NewStock)
	return nil
}

func (h *Handler) getUser(userID string) *readmodel.UserReadModel {
	data, exists, err := h.readStore.Get(store.CollectionUsers, userID)
	if err != nil || !exists {
		return nil
	}
	u, ok := data.(*readmodel.UserReadModel)
	if !ok {
		return nil
	}
	return u
}
