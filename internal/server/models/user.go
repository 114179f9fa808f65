// Package models defines the records persisted by the credential store.
package models

import "time"

// User is an identity record. It is created on signup and never updated.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
