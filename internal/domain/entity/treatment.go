package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Treatment is an entry of the clinic's treatment catalog
type Treatment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name            string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description     string          `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DurationMinutes int             `gorm:"not null;default:30"`
	IsActive        *bool           `gorm:"not null;default:true"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

func (Treatment) TableName() string {
	return "treatments"
}

func (t *Treatment) Active() bool {
	return t.IsActive != nil && *t.IsActive
}
