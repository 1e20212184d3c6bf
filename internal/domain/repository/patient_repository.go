package repository

import (
	"context"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.PatientFilter) ([]entity.Patient, int64, error)
	Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
}
