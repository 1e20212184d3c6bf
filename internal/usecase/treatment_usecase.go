package usecase

import (
	"context"
	"errors"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/converter"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/repository"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTreatmentNotFound     = errors.New("treatment not found")
	ErrTreatmentNameExists   = errors.New("treatment name already exists")
	ErrInvalidTreatmentPrice = errors.New("price must not be negative")
)

type TreatmentUsecase interface {
	CreateTreatment(ctx context.Context, req *dto.CreateTreatmentRequest) (*dto.TreatmentResponse, error)
	GetAllTreatments(ctx context.Context, page, limit int) (*dto.TreatmentListResponse, error)
	GetTreatment(ctx context.Context, id uuid.UUID) (*dto.TreatmentResponse, error)
	UpdateTreatment(ctx context.Context, id uuid.UUID, req *dto.UpdateTreatmentRequest) (*dto.TreatmentResponse, error)
	// DeactivateTreatment hides a treatment from new bookings; existing appointments keep it.
	DeactivateTreatment(ctx context.Context, id uuid.UUID) error
}

type treatmentUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	treatmentRepo repository.TreatmentRepository
	auditService  service.AuditService
}

func NewTreatmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	treatmentRepo repository.TreatmentRepository,
	auditService service.AuditService,
) TreatmentUsecase {
	return &treatmentUsecase{
		db:            db,
		log:           log,
		treatmentRepo: treatmentRepo,
		auditService:  auditService,
	}
}

func (u *treatmentUsecase) CreateTreatment(ctx context.Context, req *dto.CreateTreatmentRequest) (*dto.TreatmentResponse, error) {
	if req.Price.IsNegative() {
		return nil, ErrInvalidTreatmentPrice
	}

	treatment := &entity.Treatment{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        entity.BoolPtr(true),
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.treatmentRepo.Create(ctx, tx, treatment); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrTreatmentNameExists
		}
		u.log.Warnf("Failed to create treatment: %+v", err)
		return nil, err
	}

	response := converter.TreatmentToResponse(treatment)
	if err := u.auditService.LogCreate(ctx, tx, actorID(ctx), entity.AuditActionTreatmentCreate, "treatment", treatment.ID.String(), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *treatmentUsecase) GetAllTreatments(ctx context.Context, page, limit int) (*dto.TreatmentListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	offset := (page - 1) * limit

	treatments, total, err := u.treatmentRepo.FindAll(ctx, u.db, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find treatments: %+v", err)
		return nil, err
	}

	return &dto.TreatmentListResponse{
		Treatments: converter.TreatmentsToResponses(treatments),
		Total:      total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

func (u *treatmentUsecase) GetTreatment(ctx context.Context, id uuid.UUID) (*dto.TreatmentResponse, error) {
	treatment, err := u.treatmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find treatment %s: %+v", id, err)
		return nil, err
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}

	return converter.TreatmentToResponse(treatment), nil
}

func (u *treatmentUsecase) UpdateTreatment(ctx context.Context, id uuid.UUID, req *dto.UpdateTreatmentRequest) (*dto.TreatmentResponse, error) {
	if req.Price.IsNegative() {
		return nil, ErrInvalidTreatmentPrice
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	treatment, err := u.treatmentRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find treatment %s: %+v", id, err)
		return nil, err
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}

	oldValue := converter.TreatmentToResponse(treatment)

	treatment.Name = req.Name
	treatment.Description = req.Description
	treatment.Price = req.Price
	treatment.DurationMinutes = req.DurationMinutes
	if req.IsActive != nil {
		treatment.IsActive = req.IsActive
	}

	if err := u.treatmentRepo.Update(ctx, tx, treatment); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrTreatmentNameExists
		}
		u.log.Warnf("Failed to update treatment %s: %+v", id, err)
		return nil, err
	}

	newValue := converter.TreatmentToResponse(treatment)
	if err := u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionTreatmentUpdate, "treatment", id.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func (u *treatmentUsecase) DeactivateTreatment(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.treatmentRepo.Deactivate(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to deactivate treatment %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrTreatmentNotFound
	}

	if err := u.auditService.LogEvent(ctx, tx, actorID(ctx), entity.AuditActionTreatmentDeactivate, map[string]interface{}{
		"entity":    "treatment",
		"entity_id": id.String(),
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
