package command

import "github.com/example/bazaarlink/internal/domain/order"

// Product Commands
type CreateProduct struct {
	SupplierID        string `json:"-"`
	Name              string `json:"name"`
	Unit              string `json:"unit"`
	Price             int    `json:"price"`
	Stock             int    `json:"stock"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

type UpdateProduct struct {
	SupplierID        string `json:"-"`
	ProductID         string `json:"-"`
	Price             *int   `json:"price"`
	Stock             *int   `json:"stock"`
	LowStockThreshold *int   `json:"low_stock_threshold"`
}

type RestockProduct struct {
	SupplierID string `json:"-"`
	ProductID  string `json:"-"`
	Quantity   int    `json:"quantity"`
}

// Order Commands
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type PlaceOrder struct {
	VendorID   string      `json:"-"`
	SupplierID string      `json:"supplier_id"`
	Kind       order.Kind  `json:"-"`
	Items      []OrderItem `json:"items"`
}

type ConfirmOrder struct {
	SupplierID string `json:"-"`
	OrderID    string `json:"-"`
}

type FulfillOrder struct {
	SupplierID string `json:"-"`
	OrderID    string `json:"-"`
}

// Review Commands
type LeaveReview struct {
	VendorID   string `json:"-"`
	SupplierID string `json:"-"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}
