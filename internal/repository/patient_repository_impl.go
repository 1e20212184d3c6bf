package repository

import (
	"context"
	"errors"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	domainRepo "github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Create(patient).Error
}

func (r *patientRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.PatientFilter) ([]entity.Patient, int64, error) {
	var patients []entity.Patient
	var total int64

	query := db.WithContext(ctx).Model(&entity.Patient{})
	if filter != nil && filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR phone ILIKE ?", like, like, like)
	}
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter != nil && filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	if err := query.Order("last_name ASC, first_name ASC").Find(&patients).Error; err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *patientRepository) Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Omit("Appointments").Save(patient).Error
}
