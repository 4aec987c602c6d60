package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecocycle/rewards-api/internal/model"
	"github.com/ecocycle/rewards-api/internal/notify"
	"github.com/ecocycle/rewards-api/internal/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPoints     = errors.New("points must be a positive integer")
	ErrRequestIDRequired = errors.New("requestId is required")
	ErrInvalidDecision   = errors.New("status must be approved or rejected")
	ErrAdminMismatch     = errors.New("adminId does not match the authenticated admin")
	ErrRequestNotFound   = errors.New("redemption request not found")
	ErrAlreadyProcessed  = errors.New("redemption request already processed")
	ErrInvalidListStatus = errors.New("unknown redemption status")
)

// Broadcaster publishes workflow events to live admin dashboards.
type Broadcaster interface {
	Broadcast(msg notify.Message)
}

// RedemptionService runs the points-to-money redemption workflow.
type RedemptionService struct {
	tx            *repository.TxRunner
	users         *repository.UserRepository
	redemptions   *repository.RedemptionRepository
	notifications *repository.NotificationRepository
	transactions  *repository.TransactionRepository
	feed          Broadcaster
	logger        *slog.Logger
	now           func() time.Time
}

// NewRedemptionService wires the workflow. feed may be nil.
func NewRedemptionService(
	tx *repository.TxRunner,
	users *repository.UserRepository,
	redemptions *repository.RedemptionRepository,
	notifications *repository.NotificationRepository,
	transactions *repository.TransactionRepository,
	feed Broadcaster,
	logger *slog.Logger,
) *RedemptionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedemptionService{
		tx:            tx,
		users:         users,
		redemptions:   redemptions,
		notifications: notifications,
		transactions:  transactions,
		feed:          feed,
		logger:        logger,
		now:           time.Now,
	}
}

// Create files a pending request and notifies every admin. The point balance is
// checked here but only debited on approval.
func (s *RedemptionService) Create(ctx context.Context, req model.CreateRedemptionRequest) (model.RedemptionResponse, error) {
	if req.UserID <= 0 {
		return model.RedemptionResponse{}, ErrInvalidUserID
	}
	if req.Points <= 0 {
		return model.RedemptionResponse{}, ErrInvalidPoints
	}

	created := &model.RedemptionRequest{UserID: req.UserID, Points: req.Points}
	var admins int64

	err := s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		user, err := s.users.GetByIDTx(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if user.Points < req.Points {
			return ErrInsufficientPoints
		}

		if err := s.redemptions.CreateTx(ctx, tx, created); err != nil {
			return err
		}

		msg := fmt.Sprintf("%s requested to redeem %d points", user.Name, req.Points)
		admins, err = s.notifications.NotifyAdminsTx(ctx, tx, model.NotificationRedemptionRequest, msg)
		return err
	})
	if err != nil {
		return model.RedemptionResponse{}, mapStoreError(err)
	}

	s.logger.Info("redemption requested",
		"request_id", created.ID, "user_id", created.UserID, "points", created.Points, "admins_notified", admins)
	s.publish(notify.NewMessage("redemption", "created", created.ID, map[string]any{
		"user_id": created.UserID,
		"points":  created.Points,
	}))

	return model.RedemptionResponse{
		Message: "redemption request submitted",
		Request: *created,
	}, nil
}

// Process approves or rejects a pending request on behalf of adminID. Every write
// happens in one transaction guarded by a conditional update on the pending status,
// so concurrent calls for the same request succeed at most once.
func (s *RedemptionService) Process(ctx context.Context, adminID int64, req model.ProcessRedemptionRequest) (model.RedemptionResponse, error) {
	if req.RequestID <= 0 {
		return model.RedemptionResponse{}, ErrRequestIDRequired
	}
	if !req.Status.Terminal() {
		return model.RedemptionResponse{}, ErrInvalidDecision
	}
	if req.AdminID != 0 && req.AdminID != adminID {
		return model.RedemptionResponse{}, ErrAdminMismatch
	}

	var processed *model.RedemptionRequest
	err := s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.redemptions.TransitionTx(ctx, tx, req.RequestID, adminID, req.Status, s.now()); err != nil {
			return err
		}

		var err error
		processed, err = s.redemptions.GetByIDTx(ctx, tx, req.RequestID)
		if err != nil {
			return err
		}

		notifType := model.NotificationRedemptionRejected
		msg := fmt.Sprintf("Your redemption request for %d points was rejected", processed.Points)

		if req.Status == model.StatusApproved {
			amount := decimal.NewFromInt(int64(processed.Points))
			if err := s.users.ConvertPointsTx(ctx, tx, processed.UserID, processed.Points, amount); err != nil {
				return err
			}

			ref := processed.ID
			entry := &model.Transaction{
				UserID:      processed.UserID,
				Type:        model.TransactionRedemption,
				Points:      -processed.Points,
				Amount:      amount,
				ReferenceID: &ref,
				Description: fmt.Sprintf("Redeemed %d points", processed.Points),
			}
			if err := s.transactions.CreateTx(ctx, tx, entry); err != nil {
				return err
			}

			notifType = model.NotificationRedemptionApproved
			msg = fmt.Sprintf("Your redemption request for %d points was approved. %s has been added to your balance",
				processed.Points, amount.StringFixed(2))
		}

		return s.notifications.CreateTx(ctx, tx, processed.UserID, notifType, msg)
	})
	if err != nil {
		return model.RedemptionResponse{}, mapStoreError(err)
	}

	s.logger.Info("redemption processed",
		"request_id", processed.ID, "user_id", processed.UserID, "admin_id", adminID,
		"status", processed.Status, "points", processed.Points)
	s.publish(notify.NewMessage("redemption", string(processed.Status), processed.ID, map[string]any{
		"user_id":  processed.UserID,
		"points":   processed.Points,
		"admin_id": adminID,
	}))

	return model.RedemptionResponse{
		Message: fmt.Sprintf("redemption request %s", processed.Status),
		Request: *processed,
	}, nil
}

// ListPendingForUser returns a user's pending requests, newest first.
func (s *RedemptionService) ListPendingForUser(ctx context.Context, userID int64) ([]model.RedemptionRequest, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, mapStoreError(err)
	}
	reqs, err := s.redemptions.ListByUserAndStatus(ctx, userID, model.StatusPending)
	if err != nil {
		return nil, err
	}
	return nonNil(reqs), nil
}

// ListByStatus returns every request in status with its owner's name and email.
func (s *RedemptionService) ListByStatus(ctx context.Context, status model.RedemptionStatus) ([]model.RedemptionRequest, error) {
	if !status.Valid() {
		return nil, ErrInvalidListStatus
	}
	reqs, err := s.redemptions.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return nonNil(reqs), nil
}

func (s *RedemptionService) publish(msg notify.Message) {
	if s.feed != nil {
		s.feed.Broadcast(msg)
	}
}

// nonNil makes empty listings encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
