package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a user in the database.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Points       int
	Money        decimal.Decimal
	IsAdmin      bool
	CreatedAt    time.Time
}

// LoginRequest accepts either a bare username or an email in Username.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents a username-based registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest represents an email-based registration.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthResponse represents a login or registration response.
type AuthResponse struct {
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// SignupResponse is returned by email signup, which does not log the user in.
type SignupResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// UserResponse represents user data safe for API responses (no password hash).
type UserResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Points    int             `json:"points"`
	Money     decimal.Decimal `json:"money"`
	IsAdmin   bool            `json:"is_admin"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToResponse strips credentials from u.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Points:    u.Points,
		Money:     u.Money,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

type PointsResponse struct {
	Points int `json:"points"`
}

// UserStats aggregates a user's balances and redemption activity.
type UserStats struct {
	UserID              int64           `json:"user_id"`
	Name                string          `json:"name"`
	Points              int             `json:"points"`
	Money               decimal.Decimal `json:"money"`
	TotalRedeemedPoints int             `json:"total_redeemed_points"`
	TotalRedeemedMoney  decimal.Decimal `json:"total_redeemed_money"`
	PendingRequests     int             `json:"pending_requests"`
	ApprovedRequests    int             `json:"approved_requests"`
	RejectedRequests    int             `json:"rejected_requests"`
	TransactionCount    int             `json:"transaction_count"`
}

// PasswordResetResponse carries a one-time password issued by an admin.
type PasswordResetResponse struct {
	Message           string `json:"message"`
	TemporaryPassword string `json:"temporary_password"`
}
