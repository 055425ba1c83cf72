package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/trogers1052/portfolio-service/internal/models"
)

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CreateUser registers a new account. The password is stored as a
// SHA-256 hex digest and never read back out of this package.
func (db *DB) CreateUser(username, password string) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	now := time.Now()
	u := &models.User{Username: username, CreatedAt: now}

	err := db.conn.QueryRow(query, username, hashPassword(password), now).Scan(&u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// AuthenticateUser verifies a username/password pair and returns the
// matching user.
func (db *DB) AuthenticateUser(username, password string) (*models.User, error) {
	query := `
		SELECT id, username, created_at
		FROM users
		WHERE username = $1 AND password_hash = $2
	`
	var u models.User
	err := db.conn.QueryRow(query, username, hashPassword(password)).Scan(&u.ID, &u.Username, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	return &u, nil
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(id int) (*models.User, error) {
	query := `SELECT id, username, created_at FROM users WHERE id = $1`

	var u models.User
	err := db.conn.QueryRow(query, id).Scan(&u.ID, &u.Username, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
