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
	ErrDentistNotFound     = errors.New("dentist not found")
	ErrLicenseNumberExists = errors.New("license number already exists")
)

type DentistUsecase interface {
	GetAllDentists(ctx context.Context, activeOnly bool) (*dto.DentistListResponse, error)
	GetDentist(ctx context.Context, id uuid.UUID) (*dto.DentistResponse, error)
	UpdateDentist(ctx context.Context, id uuid.UUID, req *dto.UpdateDentistRequest) (*dto.DentistResponse, error)
}

type dentistUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	dentistRepo  repository.DentistRepository
	auditService service.AuditService
	tokenStore   service.TokenStore
}

func NewDentistUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	dentistRepo repository.DentistRepository,
	auditService service.AuditService,
	tokenStore service.TokenStore,
) DentistUsecase {
	return &dentistUsecase{
		db:           db,
		log:          log,
		dentistRepo:  dentistRepo,
		auditService: auditService,
		tokenStore:   tokenStore,
	}
}

func (u *dentistUsecase) GetAllDentists(ctx context.Context, activeOnly bool) (*dto.DentistListResponse, error) {
	dentists, err := u.dentistRepo.FindAll(ctx, u.db, activeOnly)
	if err != nil {
		u.log.Warnf("Failed to find dentists: %+v", err)
		return nil, err
	}

	return &dto.DentistListResponse{
		Dentists: converter.DentistsToResponses(dentists),
		Total:    len(dentists),
	}, nil
}

func (u *dentistUsecase) GetDentist(ctx context.Context, id uuid.UUID) (*dto.DentistResponse, error) {
	dentist, err := u.dentistRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find dentist %s: %+v", id, err)
		return nil, err
	}
	if dentist == nil {
		return nil, ErrDentistNotFound
	}

	return converter.DentistToResponse(dentist), nil
}

func (u *dentistUsecase) UpdateDentist(ctx context.Context, id uuid.UUID, req *dto.UpdateDentistRequest) (*dto.DentistResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	dentist, err := u.dentistRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find dentist %s: %+v", id, err)
		return nil, err
	}
	if dentist == nil {
		return nil, ErrDentistNotFound
	}

	// Capture old value for audit
	oldValue := converter.DentistToResponse(dentist)
	wasActive := dentist.Active()

	if req.FirstName != "" {
		dentist.FirstName = req.FirstName
	}
	if req.LastName != "" {
		dentist.LastName = req.LastName
	}
	if req.Phone != "" {
		dentist.Phone = req.Phone
	}
	if req.IsActive != nil {
		dentist.IsActive = req.IsActive
	}

	if req.LicenseNumber != "" || req.Specialization != "" || req.Biography != "" {
		if dentist.DentistProfile == nil {
			dentist.DentistProfile = &entity.DentistProfile{UserID: dentist.ID}
		}
		if req.LicenseNumber != "" {
			dentist.DentistProfile.LicenseNumber = req.LicenseNumber
		}
		if req.Specialization != "" {
			dentist.DentistProfile.Specialization = req.Specialization
		}
		if req.Biography != "" {
			dentist.DentistProfile.Biography = req.Biography
		}
	}

	if err := u.dentistRepo.Update(ctx, tx, dentist); err != nil {
		if isDuplicateKeyError(err, "license") {
			return nil, ErrLicenseNumberExists
		}
		u.log.Warnf("Failed to update dentist %s: %+v", id, err)
		return nil, err
	}

	newValue := converter.DentistToResponse(dentist)
	if err := u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionDentistUpdate, "dentist", id.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// A deactivated dentist keeps no live sessions.
	if wasActive && !dentist.Active() {
		if err := u.tokenStore.RevokeAll(ctx, id); err != nil {
			u.log.Warnf("Failed to revoke tokens of dentist %s: %+v", id, err)
		}
		u.log.Infof("Dentist %s deactivated", id)
	}

	return newValue, nil
}
