package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	domainRepo "github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	return db.WithContext(ctx).Omit("Patient", "Dentist", "Treatment").Create(appointment).Error
}

func (r *appointmentRepository) Update(ctx context.Context, db *gorm.DB, appointment *entity.Appointment, from entity.AppointmentStatus) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", appointment.ID, from).
		Select("*").
		Omit("id", "created_at", "Patient", "Dentist", "Treatment").
		Updates(appointment)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.WithContext(ctx).
		Preload("Patient").Preload("Dentist").Preload("Treatment").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.WithContext(ctx).Preload("Patient").Preload("Dentist")

	if filter != nil {
		if filter.DentistID != nil {
			query = query.Where("dentist_id = ?", *filter.DentistID)
		}
		if filter.PatientID != nil {
			query = query.Where("patient_id = ?", *filter.PatientID)
		}
		if filter.Date != nil {
			query = query.Where("appointment_date = ?", filter.Date.Format(dateLayout))
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
	}

	err := query.Order("appointment_date ASC, start_time ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindActiveByDentistAndDate(ctx context.Context, db *gorm.DB, dentistID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.WithContext(ctx).
		Preload("Patient").
		Where("dentist_id = ? AND appointment_date = ? AND status <> ?", dentistID, date.Format(dateLayout), entity.AppointmentStatusCancelled)

	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	err := query.Order("start_time ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateStatus changes the status only if it still equals from.
// Returns affected rows: 1 = success, 0 = status changed concurrently.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) LockDentistDay(ctx context.Context, db *gorm.DB, dentistID uuid.UUID, date time.Time) error {
	key := fmt.Sprintf("appointments:%s:%s", dentistID, date.Format(dateLayout))
	if err := db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
		return fmt.Errorf("lock dentist day %s: %w", key, err)
	}
	return nil
}
