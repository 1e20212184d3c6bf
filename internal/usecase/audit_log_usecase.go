package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/converter"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAuditLogNotFound   = errors.New("audit log not found")
	ErrInvalidAuditRange  = errors.New("audit log range must end on or after its start")
	ErrInvalidAuditFilter = errors.New("invalid audit log filter")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, req *dto.ListAuditLogsRequest) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, req *dto.ListAuditLogsRequest) (*dto.AuditLogListResponse, error) {
	filter, err := auditLogFilter(req)
	if err != nil {
		return nil, err
	}

	logs, total, err := u.auditLogRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:   converter.AuditLogsToResponses(logs),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log %d: %+v", id, err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}

// auditLogFilter turns the inclusive date range into [from, to+1day).
func auditLogFilter(req *dto.ListAuditLogsRequest) (*entity.AuditLogFilter, error) {
	filter := &entity.AuditLogFilter{
		Action:   req.Action,
		Entity:   req.Entity,
		EntityID: req.EntityID,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}

	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			return nil, ErrInvalidAuditFilter
		}
		filter.UserID = &userID
	}
	if req.From != "" {
		from, err := time.Parse(time.DateOnly, req.From)
		if err != nil {
			return nil, ErrInvalidAuditFilter
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(time.DateOnly, req.To)
		if err != nil {
			return nil, ErrInvalidAuditFilter
		}
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, ErrInvalidAuditRange
	}

	return filter, nil
}
