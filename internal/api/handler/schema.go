package handler

import (
	"github.com/launchbase/accounts-api/internal/core/authz"
	"github.com/launchbase/accounts-api/internal/core/domain"
)

// --- Request / Response types ---

type signUpRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type updateProfileRequest struct {
	// Pointer fields distinguish "not provided" from "clear to null".
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Bio      *string `json:"bio"       validate:"omitempty,max=500"`
}

type avatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

type navigationResponse struct {
	Role  domain.AccessRole `json:"role"`
	Links []authz.NavLink   `json:"links"`
}

type listProfilesResponse struct {
	Profiles []domain.Profile `json:"profiles"`
	Total    int              `json:"total"`
}
