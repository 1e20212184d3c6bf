package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest optionally names the refresh token to revoke with the session.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CreateStaffRequest registers an admin, dentist or receptionist account.
type CreateStaffRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	FirstName      string `json:"first_name" validate:"required,min=2,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	Phone          string `json:"phone" validate:"omitempty,min=6,max=20"`
	Role           string `json:"role" validate:"required,oneof=admin dentist receptionist"`
	LicenseNumber  string `json:"license_number" validate:"required_if=Role dentist,max=50"`
	Specialization string `json:"specialization" validate:"omitempty,max=100"`
	Biography      string `json:"biography" validate:"omitempty"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID             uuid.UUID               `json:"id"`
	Email          string                  `json:"email"`
	FirstName      string                  `json:"first_name"`
	LastName       string                  `json:"last_name"`
	FullName       string                  `json:"full_name"`
	Phone          string                  `json:"phone,omitempty"`
	Role           string                  `json:"role"`
	IsActive       bool                    `json:"is_active"`
	DentistProfile *DentistProfileResponse `json:"dentist_profile,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}
