package domain

import "time"

// Person is the slice of the person directory this service reads:
// identity, credential hash and profile for authentication.
type Person struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Profile      Profile
	Theme        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
