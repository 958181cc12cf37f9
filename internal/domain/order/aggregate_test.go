package order

import (
	"context"
	"testing"

	"github.com/example/bazaarlink/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrderService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

func placeTestOrder(t *testing.T, service *Service) *Order {
	t.Helper()
	o, err := service.Place(context.Background(), "vendor-1", "supplier-1", KindIndividual, []OrderItem{
		{ProductID: "product-1", Quantity: 2, Price: 25},
	})
	require.NoError(t, err)
	return o
}

// ============================================
// Place Tests
// ============================================

func TestService_Place_Valid(t *testing.T) {
	service, eventStore := newTestOrderService()

	o, err := service.Place(context.Background(), "vendor-1", "supplier-1", KindIndividual, []OrderItem{
		{ProductID: "product-1", Quantity: 2, Price: 25},
		{ProductID: "product-2", Quantity: 1, Price: 40},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "vendor-1", o.VendorID)
	assert.Equal(t, "supplier-1", o.SupplierID)
	assert.Equal(t, KindIndividual, o.Kind)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 90, o.Total)

	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventOrderPlaced, eventStore.AppendCalls[0].EventType)
}

func TestService_Place_DefaultsToIndividual(t *testing.T) {
	service, _ := newTestOrderService()

	o, err := service.Place(context.Background(), "vendor-1", "supplier-1", "", []OrderItem{
		{ProductID: "product-1", Quantity: 1, Price: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, KindIndividual, o.Kind)
}

func TestService_Place_EmptyOrder(t *testing.T) {
	service, eventStore := newTestOrderService()

	_, err := service.Place(context.Background(), "vendor-1", "supplier-1", KindIndividual, nil)

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_Place_NonPositiveItemQuantity(t *testing.T) {
	service, eventStore := newTestOrderService()

	_, err := service.Place(context.Background(), "vendor-1", "supplier-1", KindIndividual, []OrderItem{
		{ProductID: "product-1", Quantity: 0, Price: 10},
	})

	assert.ErrorIs(t, err, ErrInvalidItemAmount)
	assert.Empty(t, eventStore.AppendCalls)
}

// ============================================
// Status Transition Tests
// ============================================

func TestService_Confirm_FromPending(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	require.NoError(t, service.Confirm(ctx, o.ID))

	current, err := service.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, current.Status)
}

func TestService_Deliver_FromPending(t *testing.T) {
	// A supplier may fulfill without confirming first
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	require.NoError(t, service.Deliver(ctx, o.ID))

	current, err := service.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, current.Status)
}

func TestService_Deliver_FromConfirmed(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	require.NoError(t, service.Confirm(ctx, o.ID))
	require.NoError(t, service.Deliver(ctx, o.ID))

	current, err := service.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, current.Status)
}

func TestService_DeliveredIsTerminal(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	require.NoError(t, service.Deliver(ctx, o.ID))

	assert.ErrorIs(t, service.Confirm(ctx, o.ID), ErrOrderDelivered)
	assert.ErrorIs(t, service.Deliver(ctx, o.ID), ErrOrderDelivered)
}

func TestService_Confirm_Twice(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	require.NoError(t, service.Confirm(ctx, o.ID))

	err := service.Confirm(ctx, o.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_Transitions_OrderNotFound(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()

	assert.ErrorIs(t, service.Confirm(ctx, "missing"), ErrOrderNotFound)
	assert.ErrorIs(t, service.Deliver(ctx, "missing"), ErrOrderNotFound)
}

func TestOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     Status
		to       Status
		expected bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusDelivered, true},
		{StatusConfirmed, StatusDelivered, true},
		{StatusConfirmed, StatusPending, false},
		{StatusDelivered, StatusConfirmed, false},
		{StatusDelivered, StatusPending, false},
	}

	for _, tt := range tests {
		o := Order{Status: tt.from}
		assert.Equal(t, tt.expected, o.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

// ============================================
// Get Tests
// ============================================

func TestService_Get_RebuildsFromEvents(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()

	o, err := service.Place(ctx, "vendor-1", "supplier-1", KindGroup, []OrderItem{
		{ProductID: "product-1", Quantity: 3, Price: 25},
	})
	require.NoError(t, err)
	require.NoError(t, service.Confirm(ctx, o.ID))

	current, err := service.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, current.ID)
	assert.Equal(t, KindGroup, current.Kind)
	assert.Equal(t, StatusConfirmed, current.Status)
	require.Len(t, current.Items, 1)
	assert.Equal(t, 3, current.Items[0].Quantity)
}

func TestService_Get_NotFound(t *testing.T) {
	service, _ := newTestOrderService()

	_, err := service.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}
