package domain

import "time"

// User models an authenticated identity. A nil *User means the caller is
// anonymous; existence implies "authenticated".
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
