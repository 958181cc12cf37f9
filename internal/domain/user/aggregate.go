package user

import (
	"context"
	"errors"
	"time"

	"github.com/example/bazaarlink/internal/auth"
	"github.com/example/bazaarlink/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "User"

const (
	RoleVendor   = "vendor"
	RoleSupplier = "supplier"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidName        = errors.New("name is required")
	ErrInvalidPhone       = errors.New("phone is required")
	ErrInvalidRole        = errors.New("role must be vendor or supplier")
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrPhoneTaken         = errors.New("phone number already registered")
)

// User represents a user aggregate
type User struct {
	ID        string
	Name      string
	Phone     string
	Location  string
	Email     string
	Role      string
	CreatedAt time.Time
}

// Service handles user domain operations
type Service struct {
	eventStore store.EventStoreInterface
}

// NewService creates a new user service
func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Register creates a new user. Phone uniqueness is enforced by the caller
// against the read model before this is invoked.
func (s *Service) Register(ctx context.Context, name, phone, location, email, password, role string) (*User, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if phone == "" {
		return nil, ErrInvalidPhone
	}
	if role != RoleVendor && role != RoleSupplier {
		return nil, ErrInvalidRole
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	userID := uuid.New().String()
	now := time.Now()

	event := UserRegistered{
		UserID:       userID,
		Name:         name,
		Phone:        phone,
		Location:     location,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
	}

	_, err = s.eventStore.Append(ctx, userID, AggregateType, EventUserRegistered, event)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:        userID,
		Name:      name,
		Phone:     phone,
		Location:  location,
		Email:     email,
		Role:      role,
		CreatedAt: now,
	}, nil
}

// RecordLogin records a user login event
func (s *Service) RecordLogin(ctx context.Context, userID, phone string) error {
	event := UserLoggedIn{
		UserID:   userID,
		Phone:    phone,
		LoggedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, userID, AggregateType, EventUserLoggedIn, event)
	return err
}

// RecordLogout records a user logout event
func (s *Service) RecordLogout(ctx context.Context, userID string) error {
	event := UserLoggedOut{
		UserID:   userID,
		LoggedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, userID, AggregateType, EventUserLoggedOut, event)
	return err
}

// SubmitKYC files identity documents for a user
func (s *Service) SubmitKYC(ctx context.Context, userID, aadhaar, gstin string) error {
	events := s.eventStore.GetEvents(userID)
	if len(events) == 0 {
		return ErrUserNotFound
	}

	event := KYCSubmitted{
		UserID:      userID,
		Aadhaar:     aadhaar,
		Gstin:       gstin,
		SubmittedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, userID, AggregateType, EventKYCSubmitted, event)
	return err
}
