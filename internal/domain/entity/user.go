package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a clinic staff account (admin, dentist or receptionist)
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoleID    int       `gorm:"not null;index" json:"role_id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	IsActive  *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role           Role            `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	DentistProfile *DentistProfile `gorm:"foreignKey:UserID" json:"dentist_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DentistDisplayName is the name shown to patients and staff for a practitioner
func (u *User) DentistDisplayName() string {
	return "Dr. " + u.FullName()
}

// Active treats a missing flag as inactive
func (u *User) Active() bool {
	return u.IsActive != nil && *u.IsActive
}

func (u *User) IsDentist() bool {
	return u.RoleID == RoleIDDentist
}

// BoolPtr is a helper for the nullable flags gorm needs to persist false
func BoolPtr(v bool) *bool {
	return &v
}
