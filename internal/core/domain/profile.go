package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Validation limits for profile fields.
const (
	MaxFullNameLen = 100
	MaxBioLen      = 500
)

// Profile extends an external identity with product-specific fields. Every
// authenticated user is expected to have exactly one profile; a missing
// profile for an authenticated user is a critical inconsistency, not a
// normal not-found case (see ErrProfileMissing).
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	Bio       *string   `json:"bio"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the profile carries the admin role. An empty role
// defaults to "user".
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
