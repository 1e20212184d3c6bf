package repository

import (
	"context"
	"errors"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	domainRepo "github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type dentistRepository struct{}

func NewDentistRepository() domainRepo.DentistRepository {
	return &dentistRepository{}
}

func (r *dentistRepository) CreateProfile(ctx context.Context, db *gorm.DB, profile *entity.DentistProfile) error {
	return db.WithContext(ctx).Omit("User").Create(profile).Error
}

func (r *dentistRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var dentist entity.User
	err := db.WithContext(ctx).
		Preload("DentistProfile").
		Where("id = ? AND role_id = ?", id, entity.RoleIDDentist).
		First(&dentist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dentist, nil
}

func (r *dentistRepository) FindAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]entity.User, error) {
	var dentists []entity.User
	query := db.WithContext(ctx).Preload("DentistProfile").Where("role_id = ?", entity.RoleIDDentist)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("created_at ASC").Find(&dentists).Error
	if err != nil {
		return nil, err
	}
	return dentists, nil
}

// FindActive returns active dentists in creation order, which is the tie-break used
// when suggesting alternatives.
func (r *dentistRepository) FindActive(ctx context.Context, db *gorm.DB, excludeID *uuid.UUID) ([]entity.User, error) {
	var dentists []entity.User
	query := db.WithContext(ctx).Where("role_id = ? AND is_active = ?", entity.RoleIDDentist, true)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Order("created_at ASC").Find(&dentists).Error
	if err != nil {
		return nil, err
	}
	return dentists, nil
}

func (r *dentistRepository) Update(ctx context.Context, db *gorm.DB, dentist *entity.User) error {
	return db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Omit("Role").
		Save(dentist).Error
}
