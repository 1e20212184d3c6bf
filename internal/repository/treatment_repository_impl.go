package repository

import (
	"context"
	"errors"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	domainRepo "github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type treatmentRepository struct{}

func NewTreatmentRepository() domainRepo.TreatmentRepository {
	return &treatmentRepository{}
}

func (r *treatmentRepository) Create(ctx context.Context, db *gorm.DB, treatment *entity.Treatment) error {
	return db.WithContext(ctx).Create(treatment).Error
}

func (r *treatmentRepository) FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.Treatment, int64, error) {
	var treatments []entity.Treatment
	var total int64

	if err := db.WithContext(ctx).Model(&entity.Treatment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.WithContext(ctx).Order("name ASC").Limit(limit).Offset(offset).Find(&treatments).Error
	if err != nil {
		return nil, 0, err
	}

	return treatments, total, nil
}

func (r *treatmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Treatment, error) {
	var treatment entity.Treatment
	err := db.WithContext(ctx).First(&treatment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &treatment, nil
}

func (r *treatmentRepository) Update(ctx context.Context, db *gorm.DB, treatment *entity.Treatment) error {
	return db.WithContext(ctx).Save(treatment).Error
}

// Deactivate hides a treatment from the catalog; appointments keep referencing it.
func (r *treatmentRepository) Deactivate(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Treatment{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
