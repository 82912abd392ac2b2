package domain

// AccessRole is the computed access tier of a caller. It is a projection of
// (user presence) × (profile role) and is never persisted.
type AccessRole string

const (
	AccessPublic        AccessRole = "public"
	AccessAuthenticated AccessRole = "authenticated"
	AccessAdmin         AccessRole = "admin"
)
