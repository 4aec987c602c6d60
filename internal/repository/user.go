package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ecocycle/rewards-api/internal/database"
	"github.com/ecocycle/rewards-api/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInsufficientPoints = errors.New("insufficient points")
)

const userCols = `id, name, email, password_hash, points, money, is_admin, created_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(s scanner) (*model.User, error) {
	u := &model.User{}
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Points, &u.Money, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user and fills in the generated ID and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, is_admin) VALUES (?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, user.IsAdmin,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := lastInsertID(res)
	if err != nil {
		return err
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*user = *created
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = ?`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return getUserByID(ctx, r.db, id)
}

// GetByIDTx reads a user inside tx.
func (r *UserRepository) GetByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*model.User, error) {
	return getUserByID(ctx, tx, id)
}

func getUserByID(ctx context.Context, q querier, id int64) (*model.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// List returns every user, newest first.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdatePasswordHash replaces the stored credential for a user.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ConvertPointsTx moves points from a user's point balance into their money balance.
// The guard on the current balance makes the debit fail rather than go negative.
func (r *UserRepository) ConvertPointsTx(ctx context.Context, tx *sql.Tx, userID int64, points int, amount decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE users SET points = points - ?, money = money + ? WHERE id = ? AND points >= ?`,
		points, amount, userID, points,
	)
	if err != nil {
		return fmt.Errorf("convert points: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		if _, err := getUserByID(ctx, tx, userID); err != nil {
			return err
		}
		return ErrInsufficientPoints
	}
	return nil
}

// Stats aggregates balances and redemption activity for a user in one round trip.
func (r *UserRepository) Stats(ctx context.Context, userID int64) (*model.UserStats, error) {
	query := `
		SELECT u.id, u.name, u.points, u.money,
			(SELECT COALESCE(SUM(rr.points), 0) FROM redemption_requests rr WHERE rr.user_id = u.id AND rr.status = 'approved'),
			(SELECT COALESCE(SUM(t.amount), 0) FROM transactions t WHERE t.user_id = u.id AND t.type = ?),
			(SELECT COUNT(*) FROM redemption_requests rr WHERE rr.user_id = u.id AND rr.status = 'pending'),
			(SELECT COUNT(*) FROM redemption_requests rr WHERE rr.user_id = u.id AND rr.status = 'approved'),
			(SELECT COUNT(*) FROM redemption_requests rr WHERE rr.user_id = u.id AND rr.status = 'rejected'),
			(SELECT COUNT(*) FROM transactions t WHERE t.user_id = u.id)
		FROM users u WHERE u.id = ?`

	s := &model.UserStats{}
	err := r.db.QueryRowContext(ctx, query, model.TransactionRedemption, userID).Scan(
		&s.UserID, &s.Name, &s.Points, &s.Money,
		&s.TotalRedeemedPoints, &s.TotalRedeemedMoney,
		&s.PendingRequests, &s.ApprovedRequests, &s.RejectedRequests,
		&s.TransactionCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return s, nil
}
