package user

import "time"

const (
	EventUserRegistered = "UserRegistered"
	EventUserLoggedIn   = "UserLoggedIn"
	EventUserLoggedOut  = "UserLoggedOut"
	EventKYCSubmitted   = "KYCSubmitted"
)

// UserRegistered is emitted when a new vendor or supplier signs up
type UserRegistered struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserLoggedIn is emitted when a user successfully logs in
type UserLoggedIn struct {
	UserID   string    `json:"user_id"`
	Phone    string    `json:"phone"`
	LoggedAt time.Time `json:"logged_at"`
}

// UserLoggedOut is emitted when a user logs out
type UserLoggedOut struct {
	UserID   string    `json:"user_id"`
	LoggedAt time.Time `json:"logged_at"`
}

// KYCSubmitted is emitted when a user files identity documents
type KYCSubmitted struct {
	UserID      string    `json:"user_id"`
	Aadhaar     string    `json:"aadhaar,omitempty"`
	Gstin       string    `json:"gstin,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}
