package domain

import "time"

// User is a registered store owner. The catalog only ever reads users to
// resolve a store's author; account management lives in the auth collaborator.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	CreatedAt    time.Time
}
