package product

import "time"

const (
	EventProductCreated      = "ProductCreated"
	EventProductPriceUpdated = "ProductPriceUpdated"
	EventThresholdChanged    = "ThresholdChanged"
	EventStockOrdered        = "StockOrdered"
	EventStockRestocked      = "StockRestocked"
	EventStockAdjusted       = "StockAdjusted"
)

type ProductCreated struct {
	ProductID         string    `json:"product_id"`
	SupplierID        string    `json:"supplier_id"`
	Name              string    `json:"name"`
	Unit              string    `json:"unit"`
	Price             int       `json:"price"`
	Stock             int       `json:"stock"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	CreatedAt         time.Time `json:"created_at"`
}

type ProductPriceUpdated struct {
	ProductID string    `json:"product_id"`
	Price     int       `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ThresholdChanged is emitted when only the low-stock threshold moves.
// It carries no stock delta and produces no ledger entry.
type ThresholdChanged struct {
	ProductID         string    `json:"product_id"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// StockOrdered is emitted when an order consumes stock. Quantity is the
// signed delta, so it is always negative here.
type StockOrdered struct {
	ProductID     string    `json:"product_id"`
	OrderID       string    `json:"order_id"`
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	OrderedAt     time.Time `json:"ordered_at"`
}

type StockRestocked struct {
	ProductID     string    `json:"product_id"`
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	RestockedAt   time.Time `json:"restocked_at"`
}

// StockAdjusted is emitted when a supplier sets stock to an absolute value.
// Quantity is the signed delta between the new and previous stock.
type StockAdjusted struct {
	ProductID     string    `json:"product_id"`
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	AdjustedAt    time.Time `json:"adjusted_at"`
}
