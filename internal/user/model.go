package user

import "time"

// User represents a registered account.
// HashedPassword is opaque and never serialized to clients.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name,omitempty"`
	HashedPassword string    `json:"-"`
	Avatar         string    `json:"avatar"`
	Bio            string    `json:"bio"`
	CreatedAt      time.Time `json:"created_at"`
}
