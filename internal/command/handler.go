package command

import (
	"context"
	"fmt"

	"github.com/example/bazaarlink/internal/domain/order"
	"github.com/example/bazaarlink/internal/domain/product"
	"github.com/example/bazaarlink/internal/domain/review"
)

type Handler struct {
	productSvc *product.Service
	orderSvc   *order.Service
	reviewSvc  *review.Service
}

func NewHandler(
	productSvc *product.Service,
	orderSvc *order.Service,
	reviewSvc *review.Service,
) *Handler {
	return &Handler{
		productSvc: productSvc,
		orderSvc:   orderSvc,
		reviewSvc:  reviewSvc,
	}
}

// CreateProduct creates a new product for a supplier
func (h *Handler) CreateProduct(ctx context.Context, cmd CreateProduct) (*product.Product, error) {
	return h.productSvc.Create(ctx, cmd.SupplierID, cmd.Name, cmd.Unit, cmd.Price, cmd.Stock, cmd.LowStockThreshold)
}

// UpdateProduct applies a supplier's price, stock and threshold changes.
// Absent fields are left untouched.
func (h *Handler) UpdateProduct(ctx context.Context, cmd UpdateProduct) error {
	p, err := h.ownedProduct(ctx, cmd.SupplierID, cmd.ProductID)
	if err != nil {
		return err
	}

	if cmd.Price != nil && *cmd.Price != p.Price {
		if err := h.productSvc.UpdatePrice(ctx, cmd.ProductID, *cmd.Price); err != nil {
			return err
		}
	}

	if cmd.Stock != nil || cmd.LowStockThreshold != nil {
		newStock := p.Stock
		if cmd.Stock != nil {
			newStock = *cmd.Stock
		}
		if err := h.productSvc.Adjust(ctx, cmd.ProductID, newStock, cmd.LowStockThreshold); err != nil {
			return err
		}
	}

	return nil
}

// RestockProduct adds stock to a supplier's product
func (h *Handler) RestockProduct(ctx context.Context, cmd RestockProduct) error {
	if _, err := h.ownedProduct(ctx, cmd.SupplierID, cmd.ProductID); err != nil {
		return err
	}
	return h.productSvc.Restock(ctx, cmd.ProductID, cmd.Quantity)
}

// PlaceOrder places an order in two phases: every line item is validated
// against the authoritative product state before anything is written. On
// validation failure nothing has changed; only after the whole cart passes is
// the order placed and stock decremented.
func (h *Handler) PlaceOrder(ctx context.Context, cmd PlaceOrder) (*order.Order, error) {
	if len(cmd.Items) == 0 {
		return nil, order.ErrEmptyOrder
	}

	// Validation pass. Demand is summed per product so a cart holding the
	// same product in two lines is checked against the cumulative quantity.
	demand := make(map[string]int)
	products := make(map[string]*product.Product)
	for _, item := range cmd.Items {
		if item.Quantity <= 0 {
			return nil, order.ErrInvalidItemAmount
		}
		demand[item.ProductID] += item.Quantity
		if _, seen := products[item.ProductID]; seen {
			continue
		}
		p, err := h.ownedProduct(ctx, cmd.SupplierID, item.ProductID)
		if err != nil {
			return nil, err
		}
		products[item.ProductID] = p
	}

	for productID, requested := range demand {
		p := products[productID]
		if !p.IsAvailable {
			return nil, &product.InsufficientStockError{
				ProductID:   productID,
				Name:        p.Name,
				Available:   p.Stock,
				Requested:   requested,
				Unavailable: true,
			}
		}
		if p.Stock < requested {
			return nil, &product.InsufficientStockError{
				ProductID: productID,
				Name:      p.Name,
				Available: p.Stock,
				Requested: requested,
			}
		}
	}

	// Commit pass
	items := make([]order.OrderItem, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		items = append(items, order.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     products[item.ProductID].Price,
		})
	}

	o, err := h.orderSvc.Place(ctx, cmd.VendorID, cmd.SupplierID, cmd.Kind, items)
	if err != nil {
		return nil, err
	}

	// Each decrement tags its ledger entry with the order id
	for _, item := range items {
		if err := h.productSvc.Decrement(ctx, item.ProductID, item.Quantity, o.ID); err != nil {
			return nil, fmt.Errorf("decrement stock for product %s: %w", item.ProductID, err)
		}
	}

	return o, nil
}

// ConfirmOrder marks an incoming order confirmed by its supplier
func (h *Handler) ConfirmOrder(ctx context.Context, cmd ConfirmOrder) error {
	if err := h.ownedOrder(ctx, cmd.SupplierID, cmd.OrderID); err != nil {
		return err
	}
	return h.orderSvc.Confirm(ctx, cmd.OrderID)
}

// FulfillOrder marks an incoming order delivered by its supplier
func (h *Handler) FulfillOrder(ctx context.Context, cmd FulfillOrder) error {
	if err := h.ownedOrder(ctx, cmd.SupplierID, cmd.OrderID); err != nil {
		return err
	}
	return h.orderSvc.Deliver(ctx, cmd.OrderID)
}

// ProductHistory returns the stock movement ledger for a supplier's product,
// oldest first. It reads the authoritative event stream, not the read model,
// so the entries are exact even while a projection lags.
func (h *Handler) ProductHistory(ctx context.Context, supplierID, productID string) ([]product.HistoryEntry, error) {
	if _, err := h.ownedProduct(ctx, supplierID, productID); err != nil {
		return nil, err
	}
	return h.productSvc.History(ctx, productID)
}

// LeaveReview records a vendor's review of a supplier
func (h *Handler) LeaveReview(ctx context.Context, cmd LeaveReview) (*review.Review, error) {
	return h.reviewSvc.Leave(ctx, cmd.VendorID, cmd.SupplierID, cmd.Rating, cmd.Comment)
}

// ownedProduct loads a product and checks it belongs to the supplier.
// A foreign product surfaces as not-found rather than leaking existence.
func (h *Handler) ownedProduct(ctx context.Context, supplierID, productID string) (*product.Product, error) {
	p, err := h.productSvc.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if supplierID != "" && p.SupplierID != supplierID {
		return nil, fmt.Errorf("%w: %s", product.ErrProductNotFound, productID)
	}
	return p, nil
}

// ownedOrder checks the order was placed with this supplier
func (h *Handler) ownedOrder(ctx context.Context, supplierID, orderID string) error {
	o, err := h.orderSvc.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o.SupplierID != supplierID {
		return order.ErrOrderNotFound
	}
	return nil
}
