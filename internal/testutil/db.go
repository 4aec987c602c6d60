// Package testutil provides SQLite-backed fixtures shared by package tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/ecocycle/rewards-api/internal/database"
)

// NewDB returns a migrated SQLite database in a per-test temp directory.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "ecocycle.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// CreateUser inserts a user row directly and returns its id. The password hash is a
// placeholder, so the user cannot log in.
func CreateUser(t *testing.T, db *sql.DB, name, email string, points int, isAdmin bool) int64 {
	t.Helper()

	res, err := db.Exec(
		`INSERT INTO users (name, email, password_hash, points, is_admin) VALUES (?, ?, ?, ?, ?)`,
		name, email, "!", points, isAdmin,
	)
	if err != nil {
		t.Fatalf("insert user %s: %v", email, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return id
}

// SetPoints overwrites a user's point balance, standing in for the external awarding logic.
func SetPoints(t *testing.T, db *sql.DB, userID int64, points int) {
	t.Helper()

	if _, err := db.Exec(`UPDATE users SET points = ? WHERE id = ?`, points, userID); err != nil {
		t.Fatalf("set points for user %d: %v", userID, err)
	}
}
