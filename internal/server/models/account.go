// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a registered user. Handle and Email are stored lowercased and
// are each unique. PasswordHash holds the bcrypt encoding and is never
// serialized to clients.
type Account struct {
	ID           string    `db:"id"`
	Handle       string    `db:"handle"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at"`
}
