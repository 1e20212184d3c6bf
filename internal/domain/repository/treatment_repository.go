package repository

import (
	"context"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TreatmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, treatment *entity.Treatment) error
	FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.Treatment, int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Treatment, error)
	Update(ctx context.Context, db *gorm.DB, treatment *entity.Treatment) error
	Deactivate(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
