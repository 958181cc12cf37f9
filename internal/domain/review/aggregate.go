package review

import (
	"context"
	"errors"
	"time"

	"github.com/example/bazaarlink/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Review"

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Review represents a vendor's review of a supplier
type Review struct {
	ID         string
	VendorID   string
	SupplierID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Leave records a review of a supplier
func (s *Service) Leave(ctx context.Context, vendorID, supplierID string, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	reviewID := uuid.New().String()
	now := time.Now()

	event := ReviewLeft{
		ReviewID:   reviewID,
		VendorID:   vendorID,
		SupplierID: supplierID,
		Rating:     rating,
		Comment:    comment,
		LeftAt:     now,
	}

	_, err := s.eventStore.Append(ctx, reviewID, AggregateType, EventReviewLeft, event)
	if err != nil {
		return nil, err
	}

	return &Review{
		ID:         reviewID,
		VendorID:   vendorID,
		SupplierID: supplierID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  now,
	}, nil
}
