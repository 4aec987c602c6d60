package model

import "time"

// RedemptionStatus is the lifecycle state of a redemption request.
type RedemptionStatus string

const (
	StatusPending  RedemptionStatus = "pending"
	StatusApproved RedemptionStatus = "approved"
	StatusRejected RedemptionStatus = "rejected"
)

// Terminal reports whether no further transition is allowed from s.
func (s RedemptionStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Valid reports whether s is one of the known states.
func (s RedemptionStatus) Valid() bool {
	return s == StatusPending || s.Terminal()
}

// RedemptionRequest is a user's request to convert points into money.
type RedemptionRequest struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"user_id"`
	Points      int              `json:"points"`
	Status      RedemptionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	ProcessedBy *int64           `json:"processed_by"`
	ProcessedAt *time.Time       `json:"processed_at"`

	// Populated by admin listings.
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}

// CreateRedemptionRequest is the body of POST /api/redeem-request. Status is accepted for
// compatibility with existing clients and ignored; new requests always start pending.
type CreateRedemptionRequest struct {
	UserID int64  `json:"userId"`
	Points int    `json:"points"`
	Status string `json:"status,omitempty"`
}

// ProcessRedemptionRequest is the body of POST /api/admin/process-redemption.
type ProcessRedemptionRequest struct {
	RequestID int64            `json:"requestId"`
	AdminID   int64            `json:"adminId"`
	Status    RedemptionStatus `json:"status"`
}

// RedemptionResponse wraps a request with a human-readable message.
type RedemptionResponse struct {
	Message string            `json:"message"`
	Request RedemptionRequest `json:"request"`
}
