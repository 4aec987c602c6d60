package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ecocycle/rewards-api/internal/database"
	"github.com/ecocycle/rewards-api/internal/model"
)

// ErrDuplicateTransaction means a history entry for the same reference already exists.
var ErrDuplicateTransaction = errors.New("transaction already recorded")

// TransactionRepository stores per-user balance history.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateTx records an entry. (type, reference_id) is unique, so recording the same
// approval twice fails instead of duplicating history.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	var ref sql.NullInt64
	if t.ReferenceID != nil {
		ref = sql.NullInt64{Int64: *t.ReferenceID, Valid: true}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (user_id, type, points, amount, reference_id, description) VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Type, t.Points, t.Amount, ref, t.Description,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("insert transaction: %w", err)
	}

	id, err := lastInsertID(res)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// ListByUser returns a user's history, newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, points, amount, reference_id, description, created_at
			FROM transactions WHERE user_id = ?
			ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var (
			t   model.Transaction
			ref sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Points, &t.Amount, &ref, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if ref.Valid {
			t.ReferenceID = &ref.Int64
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
