package readmodel

import "time"

// ProductReadModel is the read model for catalog products
type ProductReadModel struct {
	ID                string    `json:"id" bson:"_id"`
	SupplierID        string    `json:"supplier_id" bson:"supplier_id"`
	Name              string    `json:"name" bson:"name"`
	Unit              string    `json:"unit" bson:"unit"`
	Price             int       `json:"price" bson:"price"`
	Stock             int       `json:"stock" bson:"stock"`
	LowStockThreshold int       `json:"low_stock_threshold" bson:"low_stock_threshold"`
	IsAvailable       bool      `json:"is_available" bson:"is_available"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// OrderItemReadModel represents a line item in an order
type OrderItemReadModel struct {
	ProductID string `json:"product_id" bson:"product_id"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// OrderReadModel is the read model for orders
type OrderReadModel struct {
	ID         string               `json:"id" bson:"_id"`
	VendorID   string               `json:"vendor_id" bson:"vendor_id"`
	SupplierID string               `json:"supplier_id" bson:"supplier_id"`
	Kind       string               `json:"type" bson:"kind"`
	Status     string               `json:"status" bson:"status"`
	Items      []OrderItemReadModel `json:"items" bson:"items"`
	Total      int                  `json:"total" bson:"total"`
	CreatedAt  time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at" bson:"updated_at"`
}

// UserReadModel is the read model for users
type UserReadModel struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Phone        string    `json:"phone" bson:"phone"`
	Location     string    `json:"location" bson:"location"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash"` // Never expose in JSON
	Role         string    `json:"role" bson:"role"`
	KYCAadhaar   string    `json:"-" bson:"kyc_aadhaar,omitempty"`
	KYCGstin     string    `json:"-" bson:"kyc_gstin,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// ReviewReadModel is the read model for supplier reviews
type ReviewReadModel struct {
	ID         string    `json:"id" bson:"_id"`
	VendorID   string    `json:"vendor_id" bson:"vendor_id"`
	SupplierID string    `json:"supplier_id" bson:"supplier_id"`
	Rating     int       `json:"rating" bson:"rating"`
	Comment    string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
