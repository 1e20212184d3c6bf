package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=2,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"omitempty,min=6,max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,oneof=M F"`
	Address     string `json:"address" validate:"omitempty"`
}

type UpdatePatientRequest struct {
	FirstName   string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName    string `json:"last_name" validate:"omitempty,max=100"`
	Phone       string `json:"phone" validate:"omitempty,min=6,max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,oneof=M F"`
	Address     string `json:"address" validate:"omitempty"`
	IsActive    *bool  `json:"is_active" validate:"omitempty"`
}

type ListPatientsRequest struct {
	Search string `json:"search" validate:"omitempty,max=100"`
	Limit  int    `json:"limit" validate:"gte=0,lte=100"`
	Offset int    `json:"offset" validate:"gte=0"`
}

// Response DTOs

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Address     string    `json:"address,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int64             `json:"total"`
	Limit    int               `json:"-"`
	Offset   int               `json:"-"`
}
