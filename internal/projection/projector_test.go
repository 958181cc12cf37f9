package projection

import (
	"context"
	"testing"

	"github.com/example/bazaarlink/internal/domain/order"
	"github.com/example/bazaarlink/internal/domain/product"
	"github.com/example/bazaarlink/internal/domain/review"
	"github.com/example/bazaarlink/internal/domain/user"
	"github.com/example/bazaarlink/internal/infrastructure/store"
	"github.com/example/bazaarlink/internal/infrastructure/store/mocks"
	"github.com/example/bazaarlink/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProjector() (*Projector, *mocks.MockReadStore, *mocks.MockEventStore) {
	readStore := mocks.NewMockReadStore()
	eventStore := mocks.NewMockEventStore()
	return NewProjector(readStore), readStore, eventStore
}

func projectAll(t *testing.T, p *Projector, eventStore *mocks.MockEventStore, aggregateID string) {
	t.Helper()
	for _, event := range eventStore.GetEvents(aggregateID) {
		require.NoError(t, p.Project(event))
	}
}

// ============================================
// Product Projection Tests
// ============================================

func TestProjector_ProductLifecycle(t *testing.T) {
	projector, readStore, eventStore := newTestProjector()
	ctx := context.Background()

	productSvc := product.NewService(eventStore)
	p, err := productSvc.Create(ctx, "supplier-1", "Onions", "kg", 25, 50, 0)
	require.NoError(t, err)
	require.NoError(t, productSvc.Decrement(ctx, p.ID, 45, "order-1"))
	require.NoError(t, productSvc.UpdatePrice(ctx, p.ID, 28))
	projectAll(t, projector, eventStore, p.ID)

	data, ok := readStore.GetData(store.CollectionProducts, p.ID)
	require.True(t, ok)
	prod := data.(*readmodel.ProductReadModel)
	assert.Equal(t, "Onions", prod.Name)
	assert.Equal(t, 5, prod.Stock)
	assert.Equal(t, 28, prod.Price)
	assert.True(t, prod.IsAvailable)
	assert.Equal(t, product.DefaultLowStockThreshold, prod.LowStockThreshold)
}

func TestProjector_StockDepletionFlipsAvailability(t *testing.T) {
	projector, readStore, eventStore := newTestProjector()
	ctx := context.Background()

	productSvc := product.NewService(eventStore)
	p, err := productSvc.Create(ctx, "supplier-1", "Onions", "kg", 25, 10, 0)
	require.NoError(t, err)
	require.NoError(t, productSvc.Decrement(ctx, p.ID, 10, "order-1"))
	projectAll(t, projector, eventStore, p.ID)

	data, _ := readStore.GetData(store.CollectionProducts, p.ID)
	prod := data.(*readmodel.ProductReadModel)
	assert.Equal(t, 0, prod.Stock)
	assert.False(t, prod.IsAvailable)

	// Restock makes it available again
	require.NoError(t, productSvc.Restock(ctx, p.ID, 30))
	events := eventStore.GetEvents(p.ID)
	require.NoError(t, projector.Project(events[len(events)-1]))

	data, _ = readStore.GetData(store.CollectionProducts, p.ID)
	prod = data.(*readmodel.ProductReadModel)
	assert.Equal(t, 30, prod.Stock)
	assert.True(t, prod.IsAvailable)
}

func TestProjector_ThresholdChange(t *testing.T) {
	projector, readStore, eventStore := newTestProjector()
	ctx := context.Background()

	productSvc := product.NewService(eventStore)
	p, err := productSvc.Create(ctx, "supplier-1", "Onions", "kg", 25, 50, 0)
	require.NoError(t, err)
	threshold := 25
	require.NoError(t, productSvc.Adjust(ctx, p.ID, 50, &threshold))
	projectAll(t, projector, eventStore, p.ID)

	data, _ := readStore.GetData(store.CollectionProducts, p.ID)
	prod := data.(*readmodel.ProductReadModel)
	assert.Equal(t, 25, prod.LowStockThreshold)
	assert.Equal(t, 50, prod.Stock)
}

// ============================================
// Order Projection Tests
// ============================================

func TestProjector_OrderLifecycle(t *testing.T) {
	projector, readStore, eventStore := newTestProjector()
	ctx := context.Background()

	orderSvc := order.NewService(eventStore)
	o, err := orderSvc.Place(ctx, "vendor-1", "supplier-1", order.KindIndividual, []order.OrderItem{
		{ProductID: "product-1", Quantity: 2, Price: 25},
	})
	require.NoError(t, err)
	require.NoError(t, orderSvc.Confirm(ctx, o.ID))
	require.NoError(t, orderSvc.Deliver(ctx, o.ID))
	projectAll(t, projector, eventStore, o.ID)

	data, ok := readStore.GetData(store.CollectionOrders, o.ID)
	require.True(t, ok)
	om := data.(*readmodel.OrderReadModel)
	assert.Equal(t, "vendor-1", om.VendorID)
	assert.Equal(t, "supplier-1", om.SupplierID)
	assert.Equal(t, "individual", om.Kind)
	assert.Equal(t, "delivered", om.Status)
	assert.Equal(t, 50, om.Total)
	require.Len(t, om.Items, 1)
	assert.Equal(t, 2, om.Items[0].Quantity)
}

// ============================================
// User Projection Tests
// ============================================

func TestProjector_UserRegisteredAndKYC(t *testing.T) {
	projector, readStore, eventStore := newTestProjector()
	ctx := context.Background()

	userSvc := user.NewService(eventStore)
	u, err := userSvc.Register(ctx, "Meena", "9876500000", "Delhi", "meena@example.com", "password123", user.RoleSupplier)
	require.NoError(t, err)
	require.NoError(t, userSvc.SubmitKYC(ctx, u.ID, "1234-5678-9012", "22AAAAA0000A1Z5"))
	projectAll(t, projector, eventStore, u.ID)

	data, ok := readStore.GetData(store.CollectionUsers, u.ID)
	require.True(t, ok)
	um := data.(*readmodel.UserReadModel)
	assert.Equal(t, "Meena", um.Name)
	assert.Equal(t, "supplier", um.Role)
	assert.NotEmpty(t, um.PasswordHash)
	assert.Equal(t, "1234-5678-9012", um.KYCAadhaar)
}

// ============================================
// Review Projection Tests
// ============================================

func TestProjector_ReviewLeft(t *testing.T) {
	projector, readStore, eventStore := newTestProjector()
	ctx := context.Background()

	reviewSvc := review.NewService(eventStore)
	r, err := reviewSvc.Leave(ctx, "vendor-1", "supplier-1", 4, "Good quality")
	require.NoError(t, err)
	projectAll(t, projector, eventStore, r.ID)

	data, ok := readStore.GetData(store.CollectionReviews, r.ID)
	require.True(t, ok)
	rm := data.(*readmodel.ReviewReadModel)
	assert.Equal(t, 4, rm.Rating)
	assert.Equal(t, "Good quality", rm.Comment)
}

// ============================================
// Rebuild Tests
// ============================================

func TestProjector_RebuildFromLog(t *testing.T) {
	projector, readStore, eventStore := newTestProjector()
	ctx := context.Background()

	productSvc := product.NewService(eventStore)
	p, err := productSvc.Create(ctx, "supplier-1", "Onions", "kg", 25, 50, 0)
	require.NoError(t, err)
	require.NoError(t, productSvc.Decrement(ctx, p.ID, 20, "order-1"))

	require.NoError(t, projector.Rebuild(eventStore.GetAllEvents()))

	data, ok := readStore.GetData(store.CollectionProducts, p.ID)
	require.True(t, ok)
	assert.Equal(t, 30, data.(*readmodel.ProductReadModel).Stock)
}

func TestProjector_HandleEvent_DecodesKafkaPayload(t *testing.T) {
	projector, readStore, eventStore := newTestProjector()
	ctx := context.Background()

	productSvc := product.NewService(eventStore)
	p, err := productSvc.Create(ctx, "supplier-1", "Onions", "kg", 25, 50, 0)
	require.NoError(t, err)

	event := eventStore.GetEvents(p.ID)[0]
	payload, err := event.MarshalJSON()
	require.NoError(t, err)

	require.NoError(t, projector.HandleEvent(ctx, []byte(p.ID), payload))

	_, ok := readStore.GetData(store.CollectionProducts, p.ID)
	assert.True(t, ok)
}
