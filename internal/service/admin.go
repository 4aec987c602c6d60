package service

import (
	"context"
	"errors"

	"github.com/ecocycle/rewards-api/internal/model"
	"github.com/ecocycle/rewards-api/internal/repository"
)

var (
	ErrInvalidRecyclableID = errors.New("a valid recyclable id is required")
	ErrPointsPerPiece      = errors.New("points_per_piece must be a non-negative integer")
	ErrRecyclableNotFound  = errors.New("recyclable not found")
)

// AdminService backs the admin dashboard's user and catalog screens.
type AdminService struct {
	users       *repository.UserRepository
	recyclables *repository.RecyclableRepository
}

func NewAdminService(users *repository.UserRepository, recyclables *repository.RecyclableRepository) *AdminService {
	return &AdminService{users: users, recyclables: recyclables}
}

// ListUsers returns every user without credentials, newest first.
func (s *AdminService) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out, nil
}

func (s *AdminService) ListRecyclables(ctx context.Context) ([]model.Recyclable, error) {
	items, err := s.recyclables.List(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

// UpdateRecyclablePoints sets the points awarded per piece for one catalog item.
func (s *AdminService) UpdateRecyclablePoints(ctx context.Context, id int64, req model.UpdateRecyclableRequest) (model.MessageResponse, error) {
	if id <= 0 {
		return model.MessageResponse{}, ErrInvalidRecyclableID
	}
	if req.PointsPerPiece == nil || *req.PointsPerPiece < 0 {
		return model.MessageResponse{}, ErrPointsPerPiece
	}

	if err := s.recyclables.UpdatePoints(ctx, id, *req.PointsPerPiece); err != nil {
		return model.MessageResponse{}, mapStoreError(err)
	}
	return model.MessageResponse{Message: "recyclable updated"}, nil
}
