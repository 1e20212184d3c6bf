package repository

import (
	"context"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DentistRepository interface {
	CreateProfile(ctx context.Context, db *gorm.DB, profile *entity.DentistProfile) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]entity.User, error)
	FindActive(ctx context.Context, db *gorm.DB, excludeID *uuid.UUID) ([]entity.User, error)
	Update(ctx context.Context, db *gorm.DB, dentist *entity.User) error
}
