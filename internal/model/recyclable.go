package model

import "time"

// Recyclable is a catalog item and the points awarded per piece recycled.
type Recyclable struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	PointsPerPiece int       `json:"points_per_piece"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpdateRecyclableRequest is the body of PUT /api/admin/recyclables/{id}. A pointer
// distinguishes a missing field from an explicit zero.
type UpdateRecyclableRequest struct {
	PointsPerPiece *int `json:"points_per_piece"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
