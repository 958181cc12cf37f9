package query

import (
	"testing"
	"time"

	"github.com/example/bazaarlink/internal/infrastructure/store"
	"github.com/example/bazaarlink/internal/infrastructure/store/mocks"
	"github.com/example/bazaarlink/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueryHandler() (*Handler, *mocks.MockReadStore) {
	readStore := mocks.NewMockReadStore()
	return NewHandler(readStore), readStore
}

func seedProduct(rs *mocks.MockReadStore, id, supplierID string, stock, threshold int, createdAt time.Time) {
	rs.SetData(store.CollectionProducts, id, &readmodel.ProductReadModel{
		ID:                id,
		SupplierID:        supplierID,
		Name:              "Product " + id,
		Stock:             stock,
		LowStockThreshold: threshold,
		IsAvailable:       stock > 0,
		CreatedAt:         createdAt,
	})
}

// ============================================
// Product Query Tests
// ============================================

func TestHandler_GetProduct(t *testing.T) {
	h, rs := newTestQueryHandler()
	seedProduct(rs, "product-1", "supplier-1", 50, 10, time.Now())

	p, ok := h.GetProduct("product-1")
	require.True(t, ok)
	assert.Equal(t, "product-1", p.ID)

	_, ok = h.GetProduct("missing")
	assert.False(t, ok)
}

func TestHandler_ListAvailableProducts_FiltersOutOfStock(t *testing.T) {
	h, rs := newTestQueryHandler()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seedProduct(rs, "product-1", "supplier-1", 50, 10, base)
	seedProduct(rs, "product-2", "supplier-1", 0, 10, base.Add(time.Minute))
	seedProduct(rs, "product-3", "supplier-2", 7, 10, base.Add(2*time.Minute))

	products := h.ListAvailableProducts()

	require.Len(t, products, 2)
	assert.Equal(t, "product-1", products[0].ID)
	assert.Equal(t, "product-3", products[1].ID)
}

func TestHandler_ListSupplierProducts_IncludesUnavailable(t *testing.T) {
	h, rs := newTestQueryHandler()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seedProduct(rs, "product-1", "supplier-1", 50, 10, base)
	seedProduct(rs, "product-2", "supplier-1", 0, 10, base.Add(time.Minute))
	seedProduct(rs, "product-3", "supplier-2", 7, 10, base.Add(2*time.Minute))

	products := h.ListSupplierProducts("supplier-1")

	require.Len(t, products, 2)
	assert.Equal(t, "product-1", products[0].ID)
	assert.Equal(t, "product-2", products[1].ID)
}

func TestHandler_ListLowStockProducts(t *testing.T) {
	h, rs := newTestQueryHandler()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seedProduct(rs, "product-1", "supplier-1", 50, 10, base)                 // healthy
	seedProduct(rs, "product-2", "supplier-1", 10, 10, base.Add(time.Minute)) // at threshold
	seedProduct(rs, "product-3", "supplier-1", 2, 10, base.Add(2*time.Minute)) // below
	seedProduct(rs, "product-4", "supplier-2", 1, 10, base.Add(3*time.Minute)) // other supplier

	products := h.ListLowStockProducts("supplier-1")

	require.Len(t, products, 2)
	assert.Equal(t, "product-2", products[0].ID)
	assert.Equal(t, "product-3", products[1].ID)
}

// ============================================
// Order Query Tests
// ============================================

func TestHandler_OrdersByVendorAndSupplier(t *testing.T) {
	h, rs := newTestQueryHandler()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	rs.SetData(store.CollectionOrders, "order-1", &readmodel.OrderReadModel{
		ID: "order-1", VendorID: "vendor-1", SupplierID: "supplier-1", CreatedAt: base,
	})
	rs.SetData(store.CollectionOrders, "order-2", &readmodel.OrderReadModel{
		ID: "order-2", VendorID: "vendor-2", SupplierID: "supplier-1", CreatedAt: base.Add(time.Minute),
	})
	rs.SetData(store.CollectionOrders, "order-3", &readmodel.OrderReadModel{
		ID: "order-3", VendorID: "vendor-1", SupplierID: "supplier-2", CreatedAt: base.Add(2 * time.Minute),
	})

	byVendor := h.ListOrdersByVendor("vendor-1")
	require.Len(t, byVendor, 2)
	assert.Equal(t, "order-1", byVendor[0].ID)
	assert.Equal(t, "order-3", byVendor[1].ID)

	bySupplier := h.ListOrdersBySupplier("supplier-1")
	require.Len(t, bySupplier, 2)
	assert.Equal(t, "order-1", bySupplier[0].ID)
	assert.Equal(t, "order-2", bySupplier[1].ID)
}

func TestHandler_GetOrder(t *testing.T) {
	h, rs := newTestQueryHandler()
	rs.SetData(store.CollectionOrders, "order-1", &readmodel.OrderReadModel{ID: "order-1"})

	o, ok := h.GetOrder("order-1")
	require.True(t, ok)
	assert.Equal(t, "order-1", o.ID)

	_, ok = h.GetOrder("missing")
	assert.False(t, ok)
}

// ============================================
// User Query Tests
// ============================================

func TestHandler_GetUserByPhone(t *testing.T) {
	h, rs := newTestQueryHandler()
	rs.SetData(store.CollectionUsers, "user-1", &readmodel.UserReadModel{
		ID: "user-1", Phone: "9876543210", Role: "vendor",
	})

	u, ok := h.GetUserByPhone("9876543210")
	require.True(t, ok)
	assert.Equal(t, "user-1", u.ID)

	_, ok = h.GetUserByPhone("0000000000")
	assert.False(t, ok)
}

func TestHandler_ListSuppliers(t *testing.T) {
	h, rs := newTestQueryHandler()
	rs.SetData(store.CollectionUsers, "user-1", &readmodel.UserReadModel{ID: "user-1", Role: "vendor"})
	rs.SetData(store.CollectionUsers, "user-2", &readmodel.UserReadModel{ID: "user-2", Role: "supplier"})
	rs.SetData(store.CollectionUsers, "user-3", &readmodel.UserReadModel{ID: "user-3", Role: "supplier"})

	suppliers := h.ListSuppliers()

	require.Len(t, suppliers, 2)
	assert.Equal(t, "user-2", suppliers[0].ID)
	assert.Equal(t, "user-3", suppliers[1].ID)
}

// ============================================
// Review Query Tests
// ============================================

func TestHandler_ListSupplierReviews(t *testing.T) {
	h, rs := newTestQueryHandler()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	rs.SetData(store.CollectionReviews, "review-1", &readmodel.ReviewReadModel{
		ID: "review-1", SupplierID: "supplier-1", Rating: 5, CreatedAt: base,
	})
	rs.SetData(store.CollectionReviews, "review-2", &readmodel.ReviewReadModel{
		ID: "review-2", SupplierID: "supplier-1", Rating: 2, CreatedAt: base.Add(time.Minute),
	})
	rs.SetData(store.CollectionReviews, "review-3", &readmodel.ReviewReadModel{
		ID: "review-3", SupplierID: "supplier-2", Rating: 1, CreatedAt: base,
	})

	result := h.ListSupplierReviews("supplier-1")

	require.Len(t, result.Reviews, 2)
	assert.Equal(t, "review-1", result.Reviews[0].ID)
	assert.InDelta(t, 3.5, result.AverageRating, 0.001)
}

func TestHandler_ListSupplierReviews_Empty(t *testing.T) {
	h, _ := newTestQueryHandler()

	result := h.ListSupplierReviews("supplier-1")

	assert.Empty(t, result.Reviews)
	assert.Zero(t, result.AverageRating)
}
