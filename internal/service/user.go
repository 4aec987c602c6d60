package service

import (
	"context"

	"github.com/ecocycle/rewards-api/internal/model"
	"github.com/ecocycle/rewards-api/internal/repository"
)

// UserService serves a user's balances and history.
type UserService struct {
	users        *repository.UserRepository
	transactions *repository.TransactionRepository
}

func NewUserService(users *repository.UserRepository, transactions *repository.TransactionRepository) *UserService {
	return &UserService{users: users, transactions: transactions}
}

// Points returns the current point balance.
func (s *UserService) Points(ctx context.Context, userID int64) (model.PointsResponse, error) {
	if userID <= 0 {
		return model.PointsResponse{}, ErrInvalidUserID
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.PointsResponse{}, mapStoreError(err)
	}
	return model.PointsResponse{Points: user.Points}, nil
}

// Stats returns balances plus redemption and transaction counters.
func (s *UserService) Stats(ctx context.Context, userID int64) (model.UserStats, error) {
	if userID <= 0 {
		return model.UserStats{}, ErrInvalidUserID
	}
	stats, err := s.users.Stats(ctx, userID)
	if err != nil {
		return model.UserStats{}, mapStoreError(err)
	}
	return *stats, nil
}

// Transactions returns the user's balance history, newest first.
func (s *UserService) Transactions(ctx context.Context, userID int64) ([]model.Transaction, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, mapStoreError(err)
	}
	txs, err := s.transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return nonNil(txs), nil
}
