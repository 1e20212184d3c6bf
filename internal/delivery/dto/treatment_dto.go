package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateTreatmentRequest struct {
	Name            string          `json:"name" validate:"required,min=2,max=255"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes" validate:"required,gte=5,lte=480"`
}

type UpdateTreatmentRequest struct {
	Name            string          `json:"name" validate:"required,min=2,max=255"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes" validate:"required,gte=5,lte=480"`
	IsActive        *bool           `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type TreatmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type TreatmentListResponse struct {
	Treatments []TreatmentResponse `json:"treatments"`
	Total      int64               `json:"total"`
	Limit      int                 `json:"-"`
	Offset     int                 `json:"-"`
}
