package review

import "time"

const (
	EventReviewLeft = "ReviewLeft"
)

// ReviewLeft is emitted when a vendor reviews a supplier
type ReviewLeft struct {
	ReviewID   string    `json:"review_id"`
	VendorID   string    `json:"vendor_id"`
	SupplierID string    `json:"supplier_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	LeftAt     time.Time `json:"left_at"`
}
