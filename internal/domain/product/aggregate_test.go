package product

import (
	"context"
	"sync"
	"testing"

	"github.com/example/bazaarlink/internal/infrastructure/store"
	"github.com/example/bazaarlink/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProductService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

func createTestProduct(t *testing.T, service *Service, stock int) *Product {
	t.Helper()
	p, err := service.Create(context.Background(), "supplier-1", "Onions", "kg", 25, stock, 0)
	require.NoError(t, err)
	return p
}

// ============================================
// Product Struct Tests
// ============================================

func TestProduct_IsLowStock(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		threshold int
		expected  bool
	}{
		{"well above threshold", 100, 10, false},
		{"just above threshold", 11, 10, false},
		{"exactly at threshold", 10, 10, true},
		{"below threshold", 5, 10, true},
		{"zero stock", 0, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Stock: tt.stock, LowStockThreshold: tt.threshold}
			assert.Equal(t, tt.expected, p.IsLowStock())
		})
	}
}

// ============================================
// Create Tests
// ============================================

func TestService_Create_Valid(t *testing.T) {
	service, eventStore := newTestProductService()

	p, err := service.Create(context.Background(), "supplier-1", "Tomatoes", "kg", 30, 50, 15)

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "supplier-1", p.SupplierID)
	assert.Equal(t, 50, p.Stock)
	assert.Equal(t, 15, p.LowStockThreshold)
	assert.True(t, p.IsAvailable)

	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventProductCreated, eventStore.AppendCalls[0].EventType)
}

func TestService_Create_DefaultThreshold(t *testing.T) {
	service, _ := newTestProductService()

	p, err := service.Create(context.Background(), "supplier-1", "Tomatoes", "kg", 30, 50, 0)

	require.NoError(t, err)
	assert.Equal(t, DefaultLowStockThreshold, p.LowStockThreshold)
}

func TestService_Create_ZeroStockUnavailable(t *testing.T) {
	service, _ := newTestProductService()

	p, err := service.Create(context.Background(), "supplier-1", "Tomatoes", "kg", 30, 0, 0)

	require.NoError(t, err)
	assert.False(t, p.IsAvailable)
}

func TestService_Create_Invalid(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()

	_, err := service.Create(ctx, "supplier-1", "", "kg", 30, 50, 0)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = service.Create(ctx, "supplier-1", "Tomatoes", "kg", 0, 50, 0)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = service.Create(ctx, "supplier-1", "Tomatoes", "kg", 30, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidStock)

	assert.Empty(t, eventStore.AppendCalls)
}

// ============================================
// Decrement Tests
// ============================================

func TestService_Decrement_Valid(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 50)

	err := service.Decrement(ctx, p.ID, 20, "order-1")
	require.NoError(t, err)

	current, err := service.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, current.Stock)
	assert.True(t, current.IsAvailable)
}

func TestService_Decrement_ToZeroBecomesUnavailable(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 20)

	err := service.Decrement(ctx, p.ID, 20, "order-1")
	require.NoError(t, err)

	current, err := service.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.Stock)
	assert.False(t, current.IsAvailable)
}

func TestService_Decrement_InsufficientStock(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 5)
	appendsBefore := len(eventStore.AppendCalls)

	err := service.Decrement(ctx, p.ID, 8, "order-1")

	assert.ErrorIs(t, err, ErrInsufficientStock)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 8, stockErr.Requested)
	assert.False(t, stockErr.Unavailable)

	// No event was appended and stock is untouched
	assert.Len(t, eventStore.AppendCalls, appendsBefore)
	current, err := service.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, current.Stock)
}

func TestService_Decrement_Unavailable(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 0)

	err := service.Decrement(ctx, p.ID, 1, "order-1")

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Unavailable)
	assert.Contains(t, stockErr.Error(), "currently unavailable")
}

func TestService_Decrement_InvalidQuantity(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 50)

	assert.ErrorIs(t, service.Decrement(ctx, p.ID, 0, "order-1"), ErrInvalidQuantity)
	assert.ErrorIs(t, service.Decrement(ctx, p.ID, -3, "order-1"), ErrInvalidQuantity)
}

func TestService_Decrement_ProductNotFound(t *testing.T) {
	service, _ := newTestProductService()

	err := service.Decrement(context.Background(), "missing", 1, "order-1")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_Decrement_RetriesAfterVersionConflict(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 50)

	// First conditional append at version 1 loses the race once
	eventStore.ConflictVersions[1] = true

	err := service.Decrement(ctx, p.ID, 10, "order-1")
	require.NoError(t, err)

	current, err := service.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, current.Stock)
}

func TestService_Decrement_ConcurrentMarginalStock(t *testing.T) {
	// Two vendors racing for the last units: stock 5, both ordering 3.
	// Exactly one succeeds, the loser gets InsufficientStock after re-read.
	eventStore := store.NewEventStore(nil)
	service := NewService(eventStore)
	ctx := context.Background()

	p, err := service.Create(ctx, "supplier-1", "Onions", "kg", 25, 5, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = service.Decrement(ctx, p.ID, 3, "order-a")
		}(i)
	}
	wg.Wait()

	successes, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, insufficient)

	current, err := service.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, current.Stock)
}

// ============================================
// Restock Tests
// ============================================

func TestService_Restock_Valid(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 0)

	err := service.Restock(ctx, p.ID, 40)
	require.NoError(t, err)

	current, err := service.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, current.Stock)
	assert.True(t, current.IsAvailable, "restocking from zero restores availability")
}

func TestService_Restock_InvalidQuantity(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 10)

	assert.ErrorIs(t, service.Restock(ctx, p.ID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, service.Restock(ctx, p.ID, -5), ErrInvalidQuantity)
}

func TestService_Restock_ProductNotFound(t *testing.T) {
	service, _ := newTestProductService()

	err := service.Restock(context.Background(), "missing", 10)

	assert.ErrorIs(t, err, ErrProductNotFound)
}

// ============================================
// Adjust Tests
// ============================================

func TestService_Adjust_SetsAbsoluteStock(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 50)

	err := service.Adjust(ctx, p.ID, 35, nil)
	require.NoError(t, err)

	current, err := service.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 35, current.Stock)

	history, err := service.History(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, ActionAdjusted, history[0].Action)
	assert.Equal(t, -15, history[0].Quantity)
}

func TestService_Adjust_ZeroDeltaAppendsNothing(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 50)
	appendsBefore := len(eventStore.AppendCalls)

	err := service.Adjust(ctx, p.ID, 50, nil)
	require.NoError(t, err)

	assert.Len(t, eventStore.AppendCalls, appendsBefore)
}

func TestService_Adjust_ThresholdOnly(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 50)

	threshold := 20
	err := service.Adjust(ctx, p.ID, 50, &threshold)
	require.NoError(t, err)

	current, err := service.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, current.Stock)
	assert.Equal(t, 20, current.LowStockThreshold)

	// Threshold changes never touch the ledger
	history, err := service.History(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestService_Adjust_NegativeStock(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 50)

	err := service.Adjust(ctx, p.ID, -1, nil)

	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestService_Adjust_ToZeroBecomesUnavailable(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 50)

	err := service.Adjust(ctx, p.ID, 0, nil)
	require.NoError(t, err)

	current, err := service.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, current.IsAvailable)
}

// ============================================
// History Tests
// ============================================

func TestService_History_ChronologicalWithDeltas(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 100)

	require.NoError(t, service.Decrement(ctx, p.ID, 30, "order-1"))
	require.NoError(t, service.Restock(ctx, p.ID, 50))
	require.NoError(t, service.Adjust(ctx, p.ID, 100, nil))

	history, err := service.History(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, ActionOrdered, history[0].Action)
	assert.Equal(t, -30, history[0].Quantity)
	assert.Equal(t, "order-1", history[0].OrderID)

	assert.Equal(t, ActionRestocked, history[1].Action)
	assert.Equal(t, 50, history[1].Quantity)

	assert.Equal(t, ActionAdjusted, history[2].Action)
	assert.Equal(t, -20, history[2].Quantity)

	// Every entry links previous and new stock through its delta,
	// and the deltas sum to the net stock change.
	sum := 0
	for _, e := range history {
		assert.Equal(t, e.PreviousStock+e.Quantity, e.NewStock)
		sum += e.Quantity
	}
	current, err := service.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, current.Stock-100, sum)
}

func TestService_History_CreationIsNotAnEntry(t *testing.T) {
	service, _ := newTestProductService()
	p := createTestProduct(t, service, 100)

	history, err := service.History(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestService_History_ProductNotFound(t *testing.T) {
	service, _ := newTestProductService()

	_, err := service.History(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

// ============================================
// Replay Tests
// ============================================

func TestProduct_ReplayDeterminism(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 100)

	require.NoError(t, service.Decrement(ctx, p.ID, 10, "order-1"))
	require.NoError(t, service.Restock(ctx, p.ID, 5))
	threshold := 30
	require.NoError(t, service.Adjust(ctx, p.ID, 80, &threshold))
	require.NoError(t, service.UpdatePrice(ctx, p.ID, 28))

	// Rebuild twice from the same log; both replays agree
	first := &Product{}
	for _, event := range eventStore.GetEvents(p.ID) {
		require.NoError(t, first.ApplyEvent(event))
	}
	second := &Product{}
	for _, event := range eventStore.GetEvents(p.ID) {
		require.NoError(t, second.ApplyEvent(event))
	}

	assert.Equal(t, first, second)
	assert.Equal(t, 80, first.Stock)
	assert.Equal(t, 30, first.LowStockThreshold)
	assert.Equal(t, 28, first.Price)
	assert.True(t, first.IsAvailable)
}

func TestProduct_SnapshotCreatedAtThreshold(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()
	p := createTestProduct(t, service, 1000)

	// Creation is version 1; nine decrements reach the snapshot threshold
	for i := 0; i < 9; i++ {
		require.NoError(t, service.Decrement(ctx, p.ID, 10, "order-1"))
	}

	require.Len(t, eventStore.SaveSnapshotCalls, 1)
	snapshot := eventStore.SaveSnapshotCalls[0].Snapshot
	assert.Equal(t, p.ID, snapshot.AggregateID)
	assert.Equal(t, store.SnapshotThreshold, snapshot.Version)
}
