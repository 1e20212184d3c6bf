package repository

import (
	"context"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	// Update writes every column only while the stored status still equals from.
	// Returns affected rows: 0 means the appointment changed status concurrently.
	Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment, from entity.AppointmentStatus) (int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	// FindActiveByDentistAndDate returns the non-cancelled appointments of one dentist-day
	// ordered by start time, optionally leaving out the appointment being edited.
	FindActiveByDentistAndDate(ctx context.Context, db *gorm.DB, dentistID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]entity.Appointment, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
	// LockDentistDay serializes writers of one dentist-day until the surrounding transaction ends.
	LockDentistDay(ctx context.Context, db *gorm.DB, dentistID uuid.UUID, date time.Time) error
}
