package domain

import "time"

// User is the domain model for registered authors.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	City         string
	Bio          string
	Work         string
	Skills       string
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
