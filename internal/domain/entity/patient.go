package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient represents a clinic patient record
type Patient struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName   string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Phone       string     `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	Email       string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"type:char(1)" json:"gender,omitempty"`
	Address     string     `gorm:"type:text" json:"address,omitempty"`
	IsActive    *bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// PatientFilter is a domain-level filter for listing patients
type PatientFilter struct {
	Search string // matches first name, last name or phone (ILIKE)
	Limit  int
	Offset int
}
