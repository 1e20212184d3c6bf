package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID       string `json:"patient_id" validate:"required,uuid"`
	DentistID       string `json:"dentist_id" validate:"required,uuid"`
	TreatmentID     string `json:"treatment_id" validate:"omitempty,uuid"`
	AppointmentDate string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time" validate:"required,timeofday"`
	EndTime         string `json:"end_time" validate:"omitempty,timeofday"` // defaults to start + treatment duration
	Reason          string `json:"reason" validate:"omitempty,max=500"`
	Notes           string `json:"notes" validate:"omitempty,max=2000"`
	ToothNumbers    []int  `json:"tooth_numbers" validate:"omitempty,max=32,dive,fdi_tooth"`
}

// UpdateAppointmentRequest reschedules or edits an appointment. Empty fields keep their value.
type UpdateAppointmentRequest struct {
	DentistID       string  `json:"dentist_id" validate:"omitempty,uuid"`
	TreatmentID     string  `json:"treatment_id" validate:"omitempty,uuid"`
	AppointmentDate string  `json:"appointment_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime       string  `json:"start_time" validate:"omitempty,timeofday"`
	EndTime         string  `json:"end_time" validate:"omitempty,timeofday"`
	Reason          *string `json:"reason" validate:"omitempty,max=500"`
	Notes           *string `json:"notes" validate:"omitempty,max=2000"`
	ToothNumbers    []int   `json:"tooth_numbers" validate:"omitempty,max=32,dive,fdi_tooth"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed cancelled completed no_show"`
	Notes  string `json:"notes" validate:"omitempty,max=2000"`
}

// SlotCheckRequest backs both the conflict check and the availability lookup.
type SlotCheckRequest struct {
	DentistID            string `json:"dentist_id" validate:"required,uuid"`
	AppointmentDate      string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	StartTime            string `json:"start_time" validate:"required,timeofday"`
	EndTime              string `json:"end_time" validate:"required,timeofday"`
	ExcludeAppointmentID string `json:"exclude_appointment_id" validate:"omitempty,uuid"`
}

type ListAppointmentsRequest struct {
	DentistID string `json:"dentist_id" validate:"omitempty,uuid"`
	PatientID string `json:"patient_id" validate:"omitempty,uuid"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status    string `json:"status" validate:"omitempty,oneof=scheduled confirmed rescheduled cancelled completed no_show"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	PatientID       uuid.UUID  `json:"patient_id"`
	PatientName     string     `json:"patient_name,omitempty"`
	DentistID       uuid.UUID  `json:"dentist_id"`
	DentistName     string     `json:"dentist_name,omitempty"`
	TreatmentID     *uuid.UUID `json:"treatment_id,omitempty"`
	TreatmentName   string     `json:"treatment_name,omitempty"`
	AppointmentDate string     `json:"appointment_date"`
	StartTime       string     `json:"start_time"`
	EndTime         string     `json:"end_time"`
	Time            string     `json:"time"`
	Status          string     `json:"status"`
	Reason          string     `json:"reason,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	ToothNumbers    []int      `json:"tooth_numbers,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type TimeSlotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Display   string `json:"display"`
}

type AlternativeDoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Available bool      `json:"available"`
}

type SuggestionsResponse struct {
	AlternativeDoctors []AlternativeDoctorResponse `json:"alternative_doctors"`
	AvailableTimeSlots []TimeSlotResponse          `json:"available_time_slots"`
	NextAvailableSlot  *TimeSlotResponse           `json:"next_available_slot"`
}

type ExistingAppointmentResponse struct {
	PatientName string `json:"patient_name"`
	Time        string `json:"time"`
}

type ConflictDetail struct {
	ExistingAppointment ExistingAppointmentResponse `json:"existing_appointment"`
}

// ConflictResponse is returned instead of writing when the dentist is busy.
type ConflictResponse struct {
	Conflict    ConflictDetail      `json:"conflict"`
	Suggestions SuggestionsResponse `json:"suggestions"`
}

// AppointmentResult holds exactly one of Appointment or Conflict.
type AppointmentResult struct {
	Appointment *AppointmentResponse
	Conflict    *ConflictResponse
}

type ConflictCheckResponse struct {
	HasConflict bool                 `json:"has_conflict"`
	Conflict    *ConflictDetail      `json:"conflict,omitempty"`
	Suggestions *SuggestionsResponse `json:"suggestions,omitempty"`
}

type AvailabilityResponse struct {
	DentistID          uuid.UUID          `json:"dentist_id"`
	Date               string             `json:"date"`
	AvailableTimeSlots []TimeSlotResponse `json:"available_time_slots"`
	NextAvailableSlot  *TimeSlotResponse  `json:"next_available_slot"`
}
