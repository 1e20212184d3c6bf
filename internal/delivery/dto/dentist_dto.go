package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type UpdateDentistRequest struct {
	FirstName      string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName       string `json:"last_name" validate:"omitempty,max=100"`
	Phone          string `json:"phone" validate:"omitempty,min=6,max=20"`
	LicenseNumber  string `json:"license_number" validate:"omitempty,max=50"`
	Specialization string `json:"specialization" validate:"omitempty,max=100"`
	Biography      string `json:"biography" validate:"omitempty"`
	IsActive       *bool  `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type DentistProfileResponse struct {
	LicenseNumber  string `json:"license_number"`
	Specialization string `json:"specialization,omitempty"`
	Biography      string `json:"biography,omitempty"`
}

type DentistResponse struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone,omitempty"`
	LicenseNumber  string    `json:"license_number,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	Biography      string    `json:"biography,omitempty"`
	IsActive       bool      `json:"is_active"`
}

type DentistListResponse struct {
	Dentists []DentistResponse `json:"dentists"`
	Total    int               `json:"total"`
}
