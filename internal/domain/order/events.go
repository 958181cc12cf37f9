package order

import "time"

const (
	EventOrderPlaced    = "OrderPlaced"
	EventOrderConfirmed = "OrderConfirmed"
	EventOrderDelivered = "OrderDelivered"
)

type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
}

type OrderPlaced struct {
	OrderID    string      `json:"order_id"`
	VendorID   string      `json:"vendor_id"`
	SupplierID string      `json:"supplier_id"`
	Kind       Kind        `json:"type"`
	Items      []OrderItem `json:"items"`
	Total      int         `json:"total"`
	PlacedAt   time.Time   `json:"placed_at"`
}

type OrderConfirmed struct {
	OrderID     string    `json:"order_id"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

type OrderDelivered struct {
	OrderID     string    `json:"order_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}
