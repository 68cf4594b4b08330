package domain

import (
	"time"
)

// Default values applied when a user is created without them.
const (
	DefaultUserRole       = "resident"
	DefaultSpecialization = "neurosurgery"
)

// User represents a registered trainee account.
//
// PasswordHash is persisted with the rest of the document (the store
// is the only place it may appear); API responses must go through a
// response DTO that leaves it out.
type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"` // unique, enforced by the auth service
	Email          string    `json:"email"`    // unique, enforced by the auth service
	PasswordHash   string    `json:"passwordHash"`
	DisplayName    string    `json:"displayName"`
	Role           string    `json:"role"`
	Specialization string    `json:"specialization"`
	CreatedAt      time.Time `json:"created_at"`
}
