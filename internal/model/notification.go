package model

import "time"

// Notification types.
const (
	NotificationRedemptionRequest  = "redemption_request"
	NotificationRedemptionApproved = "redemption_approved"
	NotificationRedemptionRejected = "redemption_rejected"
)

// NotificationPageSize caps the unread notification listing.
const NotificationPageSize = 5

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
