package repository

import (
	"context"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	// FindAll returns one page of matching entries, newest first, and the total match count.
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error)
}
