package models

import "time"

// User represents an account that owns a transaction and withdrawal
// log. The password hash never leaves the database layer.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
