// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account that owns notes. PasswordSalt and PasswordHash hold the
// argon2id material; the password itself is never stored.
type User struct {
	ID           int64
	Email        string
	PasswordSalt []byte
	PasswordHash []byte
	APIToken     string
	CreatedAt    time.Time
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID int64
	Email  string
}
