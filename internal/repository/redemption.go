package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ecocycle/rewards-api/internal/model"
)

var (
	ErrRequestNotFound  = errors.New("redemption request not found")
	ErrAlreadyProcessed = errors.New("redemption request already processed")
)

const redemptionCols = `r.id, r.user_id, r.points, r.status, r.created_at, r.processed_by, r.processed_at`

// RedemptionRepository handles redemption request persistence.
type RedemptionRepository struct {
	db *sql.DB
}

func NewRedemptionRepository(db *sql.DB) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

func scanRedemption(s scanner, extra ...any) (*model.RedemptionRequest, error) {
	var (
		req         model.RedemptionRequest
		processedBy sql.NullInt64
		processedAt sql.NullTime
	)

	dest := []any{&req.ID, &req.UserID, &req.Points, &req.Status, &req.CreatedAt, &processedBy, &processedAt}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if processedBy.Valid {
		req.ProcessedBy = &processedBy.Int64
	}
	if processedAt.Valid {
		t := processedAt.Time.UTC()
		req.ProcessedAt = &t
	}
	return &req, nil
}

// CreateTx inserts a pending request and fills in its ID and creation time.
func (r *RedemptionRepository) CreateTx(ctx context.Context, tx *sql.Tx, req *model.RedemptionRequest) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO redemption_requests (user_id, points, status) VALUES (?, ?, ?)`,
		req.UserID, req.Points, model.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("insert redemption request: %w", err)
	}

	id, err := lastInsertID(res)
	if err != nil {
		return err
	}

	created, err := getRedemption(ctx, tx, id)
	if err != nil {
		return err
	}
	*req = *created
	return nil
}

// GetByID retrieves a single request.
func (r *RedemptionRepository) GetByID(ctx context.Context, id int64) (*model.RedemptionRequest, error) {
	return getRedemption(ctx, r.db, id)
}

// GetByIDTx retrieves a single request inside tx.
func (r *RedemptionRepository) GetByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.RedemptionRequest, error) {
	return getRedemption(ctx, tx, id)
}

func getRedemption(ctx context.Context, q querier, id int64) (*model.RedemptionRequest, error) {
	row := q.QueryRowContext(ctx, `SELECT `+redemptionCols+` FROM redemption_requests r WHERE r.id = ?`, id)
	req, err := scanRedemption(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("get redemption request: %w", err)
	}
	return req, nil
}

// TransitionTx moves a pending request to a terminal status. The status filter in the
// UPDATE is the compare-and-set: of several concurrent callers only one matches the row.
func (r *RedemptionRepository) TransitionTx(ctx context.Context, tx *sql.Tx, id, adminID int64, status model.RedemptionStatus, at time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE redemption_requests SET status = ?, processed_by = ?, processed_at = ?
			WHERE id = ? AND status = ?`,
		status, adminID, at.UTC(), id, model.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("transition redemption request: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	if _, err := getRedemption(ctx, tx, id); err != nil {
		return err
	}
	return ErrAlreadyProcessed
}

// ListByUserAndStatus returns a user's requests in the given status, newest first.
func (r *RedemptionRepository) ListByUserAndStatus(ctx context.Context, userID int64, status model.RedemptionStatus) ([]model.RedemptionRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+redemptionCols+` FROM redemption_requests r
			WHERE r.user_id = ? AND r.status = ?
			ORDER BY r.created_at DESC, r.id DESC`,
		userID, status,
	)
	if err != nil {
		return nil, fmt.Errorf("list user redemptions: %w", err)
	}
	defer rows.Close()

	var reqs []model.RedemptionRequest
	for rows.Next() {
		req, err := scanRedemption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

// ListByStatus returns all requests in a status joined with their owner, newest first.
// Pending requests are ordered by creation time, processed ones by processing time.
func (r *RedemptionRepository) ListByStatus(ctx context.Context, status model.RedemptionStatus) ([]model.RedemptionRequest, error) {
	order := `r.created_at DESC, r.id DESC`
	if status.Terminal() {
		order = `r.processed_at DESC, r.id DESC`
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+redemptionCols+`, u.name, u.email FROM redemption_requests r
			JOIN users u ON u.id = r.user_id
			WHERE r.status = ?
			ORDER BY `+order,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var reqs []model.RedemptionRequest
	for rows.Next() {
		var name, email string
		req, err := scanRedemption(rows, &name, &email)
		if err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		req.UserName = name
		req.UserEmail = email
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}
