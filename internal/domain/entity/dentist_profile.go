package entity

import "github.com/google/uuid"

// DentistProfile represents practitioner-specific data for a dentist user
type DentistProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	LicenseNumber  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Specialization string    `gorm:"type:varchar(100);index" json:"specialization,omitempty"`
	Biography      string    `gorm:"type:text" json:"biography,omitempty"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DentistProfile) TableName() string {
	return "dentist_profiles"
}
