package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ecocycle/rewards-api/internal/model"
)

var ErrRecyclableNotFound = errors.New("recyclable not found")

// RecyclableRepository manages the recyclable catalog.
type RecyclableRepository struct {
	db *sql.DB
}

func NewRecyclableRepository(db *sql.DB) *RecyclableRepository {
	return &RecyclableRepository{db: db}
}

// List returns the catalog ordered by name.
func (r *RecyclableRepository) List(ctx context.Context) ([]model.Recyclable, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, points_per_piece, updated_at FROM recyclables ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list recyclables: %w", err)
	}
	defer rows.Close()

	var out []model.Recyclable
	for rows.Next() {
		var rc model.Recyclable
		if err := rows.Scan(&rc.ID, &rc.Name, &rc.PointsPerPiece, &rc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recyclable: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// UpdatePoints sets the points awarded per piece for one catalog item.
func (r *RecyclableRepository) UpdatePoints(ctx context.Context, id int64, points int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recyclables SET points_per_piece = ?, updated_at = ? WHERE id = ?`,
		points, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update recyclable: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrRecyclableNotFound
	}
	return nil
}
