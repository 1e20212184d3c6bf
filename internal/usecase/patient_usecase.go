package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrPatientNotFound = errors.New("patient not found")
)

const defaultPageSize = 20

type PatientUsecase interface {
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	GetAllPatients(ctx context.Context, req *dto.ListPatientsRequest) (*dto.PatientListResponse, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
}

type patientUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	patientRepo  repository.PatientRepository
	auditService service.AuditService
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		patientRepo:  patientRepo,
		auditService: auditService,
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	patient := &entity.Patient{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Email:       req.Email,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Address:     req.Address,
		IsActive:    entity.BoolPtr(true),
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.patientRepo.Create(ctx, tx, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	response := converter.PatientToResponse(patient)
	if err := u.auditService.LogCreate(ctx, tx, actorID(ctx), entity.AuditActionPatientCreate, "patient", patient.ID.String(), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetAllPatients(ctx context.Context, req *dto.ListPatientsRequest) (*dto.PatientListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	patients, total, err := u.patientRepo.FindAll(ctx, u.db, &entity.PatientFilter{
		Search: req.Search,
		Limit:  limit,
		Offset: req.Offset,
	})
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    total,
		Limit:    limit,
		Offset:   req.Offset,
	}, nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	// Capture old value for audit
	oldValue := converter.PatientToResponse(patient)

	if req.FirstName != "" {
		patient.FirstName = req.FirstName
	}
	if req.LastName != "" {
		patient.LastName = req.LastName
	}
	if req.Phone != "" {
		patient.Phone = req.Phone
	}
	if req.Email != "" {
		patient.Email = req.Email
	}
	if req.DateOfBirth != "" {
		if patient.DateOfBirth, err = parseOptionalDate(req.DateOfBirth); err != nil {
			return nil, err
		}
	}
	if req.Gender != "" {
		patient.Gender = req.Gender
	}
	if req.Address != "" {
		patient.Address = req.Address
	}
	if req.IsActive != nil {
		patient.IsActive = req.IsActive
	}

	if err := u.patientRepo.Update(ctx, tx, patient); err != nil {
		u.log.Warnf("Failed to update patient %s: %+v", id, err)
		return nil, err
	}

	newValue := converter.PatientToResponse(patient)
	if err := u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionPatientUpdate, "patient", id.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
