package query

import (
	"log"
	"sort"

	"github.com/example/bazaarlink/internal/infrastructure/store"
	"github.com/example/bazaarlink/internal/readmodel"
)

type Handler struct {
	readStore store.ReadStoreInterface
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore}
}

// Products

func (h *Handler) GetProduct(id string) (*readmodel.ProductReadModel, bool) {
	data, ok, err := h.readStore.Get(store.CollectionProducts, id)
	if err != nil {
		log.Printf("[Query] Error getting product %s: %v", id, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return data.(*readmodel.ProductReadModel), true
}

// ListAvailableProducts returns the vendor-facing catalog: only products
// with stock on hand.
func (h *Handler) ListAvailableProducts() []*readmodel.ProductReadModel {
	products := h.listProducts(func(p *readmodel.ProductReadModel) bool {
		return p.IsAvailable
	})
	return products
}

// ListSupplierProducts returns every product a supplier owns, available or not
func (h *Handler) ListSupplierProducts(supplierID string) []*readmodel.ProductReadModel {
	return h.listProducts(func(p *readmodel.ProductReadModel) bool {
		return p.SupplierID == supplierID
	})
}

// ListLowStockProducts returns the supplier's products at or below their
// low-stock threshold. The comparison runs here, in application logic, not
// in the storage layer.
func (h *Handler) ListLowStockProducts(supplierID string) []*readmodel.ProductReadModel {
	return h.listProducts(func(p *readmodel.ProductReadModel) bool {
		return p.SupplierID == supplierID && p.Stock <= p.LowStockThreshold
	})
}

func (h *Handler) listProducts(keep func(*readmodel.ProductReadModel) bool) []*readmodel.ProductReadModel {
	items, err := h.readStore.GetAll(store.CollectionProducts)
	if err != nil {
		log.Printf("[Query] Error listing products: %v", err)
		return nil
	}
	products := make([]*readmodel.ProductReadModel, 0, len(items))
	for _, item := range items {
		p := item.(*readmodel.ProductReadModel)
		if keep(p) {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID < products[j].ID
		}
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products
}

// Orders

func (h *Handler) GetOrder(id string) (*readmodel.OrderReadModel, bool) {
	data, ok, err := h.readStore.Get(store.CollectionOrders, id)
	if err != nil {
		log.Printf("[Query] Error getting order %s: %v", id, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return data.(*readmodel.OrderReadModel), true
}

// ListOrdersByVendor returns the orders a vendor placed
func (h *Handler) ListOrdersByVendor(vendorID string) []*readmodel.OrderReadModel {
	return h.listOrders(func(o *readmodel.OrderReadModel) bool {
		return o.VendorID == vendorID
	})
}

// ListOrdersBySupplier returns the orders incoming to a supplier
func (h *Handler) ListOrdersBySupplier(supplierID string) []*readmodel.OrderReadModel {
	return h.listOrders(func(o *readmodel.OrderReadModel) bool {
		return o.SupplierID == supplierID
	})
}

func (h *Handler) listOrders(keep func(*readmodel.OrderReadModel) bool) []*readmodel.OrderReadModel {
	items, err := h.readStore.GetAll(store.CollectionOrders)
	if err != nil {
		log.Printf("[Query] Error listing orders: %v", err)
		return nil
	}
	orders := make([]*readmodel.OrderReadModel, 0)
	for _, item := range items {
		o := item.(*readmodel.OrderReadModel)
		if keep(o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	return orders
}

// Users

func (h *Handler) GetUser(id string) (*readmodel.UserReadModel, bool) {
	data, ok, err := h.readStore.Get(store.CollectionUsers, id)
	if err != nil {
		log.Printf("[Query] Error getting user %s: %v", id, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return data.(*readmodel.UserReadModel), true
}

func (h *Handler) GetUserByPhone(phone string) (*readmodel.UserReadModel, bool) {
	u, ok, err := h.readStore.GetUserByPhone(phone)
	if err != nil {
		log.Printf("[Query] Error getting user by phone: %v", err)
		return nil, false
	}
	return u, ok
}

// ListSuppliers returns all supplier accounts
func (h *Handler) ListSuppliers() []*readmodel.UserReadModel {
	items, err := h.readStore.GetAll(store.CollectionUsers)
	if err != nil {
		log.Printf("[Query] Error listing users: %v", err)
		return nil
	}
	suppliers := make([]*readmodel.UserReadModel, 0)
	for _, item := range items {
		u := item.(*readmodel.UserReadModel)
		if u.Role == "supplier" {
			suppliers = append(suppliers, u)
		}
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].ID < suppliers[j].ID })
	return suppliers
}

// Reviews

// SupplierReviews bundles a supplier's reviews with their average rating
type SupplierReviews struct {
	Reviews       []*readmodel.ReviewReadModel `json:"reviews"`
	AverageRating float64                      `json:"average_rating"`
}

// ListSupplierReviews returns a supplier's reviews, newest last, with the
// average rating. No reviews gives an average of zero.
func (h *Handler) ListSupplierReviews(supplierID string) *SupplierReviews {
	items, err := h.readStore.GetAll(store.CollectionReviews)
	if err != nil {
		log.Printf("[Query] Error listing reviews: %v", err)
		return &SupplierReviews{Reviews: []*readmodel.ReviewReadModel{}}
	}

	reviews := make([]*readmodel.ReviewReadModel, 0)
	total := 0
	for _, item := range items {
		r := item.(*readmodel.ReviewReadModel)
		if r.SupplierID != supplierID {
			continue
		}
		reviews = append(reviews, r)
		total += r.Rating
	}
	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].ID < reviews[j].ID
		}
		return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
	})

	result := &SupplierReviews{Reviews: reviews}
	if len(reviews) > 0 {
		result.AverageRating = float64(total) / float64(len(reviews))
	}
	return result
}
