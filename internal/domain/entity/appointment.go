package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/timeslot"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusNoShow      AppointmentStatus = "no_show"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusRescheduled,
		AppointmentStatusCancelled, AppointmentStatusCompleted, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusCompleted || s == AppointmentStatusNoShow
}

// Appointment is a booked visit of a patient with a dentist.
// Appointments are never deleted; cancelling is a status transition.
type Appointment struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"patient_id"`
	DentistID       uuid.UUID          `gorm:"type:uuid;not null;index:idx_appointments_dentist_date" json:"dentist_id"`
	TreatmentID     *uuid.UUID         `gorm:"type:uuid" json:"treatment_id,omitempty"`
	AppointmentDate time.Time          `gorm:"type:date;not null;index:idx_appointments_dentist_date" json:"appointment_date"`
	StartTime       timeslot.TimeOfDay `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime         timeslot.TimeOfDay `gorm:"type:varchar(5);not null" json:"end_time"`
	Status          AppointmentStatus  `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Reason          string             `gorm:"type:text" json:"reason,omitempty"`
	Notes           string             `gorm:"type:text" json:"notes,omitempty"`
	ToothNumbers    string             `gorm:"type:varchar(255)" json:"tooth_numbers,omitempty"`
	CreatedBy       *uuid.UUID         `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient   *Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Dentist   *User      `gorm:"foreignKey:DentistID" json:"dentist,omitempty"`
	Treatment *Treatment `gorm:"foreignKey:TreatmentID" json:"treatment,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) Interval() timeslot.Interval {
	return timeslot.Interval{Start: a.StartTime, End: a.EndTime}
}

// BlocksSchedule reports whether the appointment takes part in conflict checks
func (a *Appointment) BlocksSchedule() bool {
	return a.Status != AppointmentStatusCancelled
}

// CanTransitionTo checks a status change requested through the status flow
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if !next.IsValid() || a.Status.IsTerminal() {
		return false
	}
	return a.Status != next
}

// PatientDisplayName falls back to a neutral label when the patient is not loaded
func (a *Appointment) PatientDisplayName() string {
	if a.Patient == nil || a.Patient.FullName() == "" {
		return "another patient"
	}
	return a.Patient.FullName()
}

// Teeth decodes ToothNumbers
func (a *Appointment) Teeth() []int {
	if a.ToothNumbers == "" {
		return nil
	}
	parts := strings.Split(a.ToothNumbers, ",")
	teeth := make([]int, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			teeth = append(teeth, n)
		}
	}
	return teeth
}

// SetTeeth encodes FDI tooth numbers as a comma-separated list
func (a *Appointment) SetTeeth(teeth []int) {
	parts := make([]string, len(teeth))
	for i, n := range teeth {
		parts[i] = strconv.Itoa(n)
	}
	a.ToothNumbers = strings.Join(parts, ",")
}

// IsValidFDITooth reports whether n is a permanent-dentition FDI code (11-18 ... 41-48)
func IsValidFDITooth(n int) bool {
	quadrant, tooth := n/10, n%10
	return quadrant >= 1 && quadrant <= 4 && tooth >= 1 && tooth <= 8
}

// DateOnly strips the time-of-day, keeping the calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AppointmentFilter is a domain-level filter for listing appointments
type AppointmentFilter struct {
	DentistID *uuid.UUID
	PatientID *uuid.UUID
	Date      *time.Time
	Status    AppointmentStatus
}
