package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/converter"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/http/middleware"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/repository"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/service"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/timeslot"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentInPast       = errors.New("cannot book an appointment in the past")
	ErrAppointmentNotEditable  = errors.New("appointment can no longer be changed")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
	ErrEndTimeRequired         = errors.New("end_time is required when no treatment is given")
	ErrDentistInactive         = errors.New("dentist is not active")
	ErrPatientInactive         = errors.New("patient is not active")
	ErrInvalidDateFormat       = errors.New("invalid date format, use YYYY-MM-DD")
)

type AppointmentUsecase interface {
	// CreateAppointment books a slot, or returns a conflict with suggestions and writes nothing.
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResult, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResult, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	GetAllAppointments(ctx context.Context, req *dto.ListAppointmentsRequest) (*dto.AppointmentListResponse, error)
	CheckConflict(ctx context.Context, req *dto.SlotCheckRequest) (*dto.ConflictCheckResponse, error)
	GetAvailability(ctx context.Context, req *dto.SlotCheckRequest) (*dto.AvailabilityResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	dentistRepo     repository.DentistRepository
	treatmentRepo   repository.TreatmentRepository
	scheduler       service.SchedulingService
	auditService    service.AuditService
	metrics         *service.MetricsService
	now             func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	dentistRepo repository.DentistRepository,
	treatmentRepo repository.TreatmentRepository,
	scheduler service.SchedulingService,
	auditService service.AuditService,
	metrics *service.MetricsService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		dentistRepo:     dentistRepo,
		treatmentRepo:   treatmentRepo,
		scheduler:       scheduler,
		auditService:    auditService,
		metrics:         metrics,
		now:             time.Now,
	}
}

// CreateAppointment runs RequestReceived -> TimesNormalized -> ConflictChecked -> {Booked | ConflictReported}.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResult, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, ErrPatientNotFound
	}
	dentistID, err := uuid.Parse(req.DentistID)
	if err != nil {
		return nil, ErrDentistNotFound
	}
	date, err := parseDate(req.AppointmentDate)
	if err != nil {
		return nil, err
	}

	treatment, err := u.findTreatment(ctx, req.TreatmentID)
	if err != nil {
		return nil, err
	}

	// Normalize times
	start, err := timeslot.Parse(req.StartTime)
	if err != nil {
		return nil, err
	}
	var end timeslot.TimeOfDay
	switch {
	case req.EndTime != "":
		if end, err = timeslot.Parse(req.EndTime); err != nil {
			return nil, err
		}
	case treatment != nil:
		end = start.Add(treatment.DurationMinutes)
	default:
		return nil, ErrEndTimeRequired
	}
	interval, err := newSameDayInterval(start, end)
	if err != nil {
		return nil, err
	}

	if u.inPast(date, start) {
		return nil, ErrAppointmentInPast
	}
	if err := u.ensurePatient(ctx, patientID); err != nil {
		return nil, err
	}
	if err := u.ensureDentist(ctx, dentistID); err != nil {
		return nil, err
	}

	q := service.SlotQuery{DentistID: dentistID, Date: date, Interval: interval}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.LockDentistDay(ctx, tx, dentistID, date); err != nil {
		u.log.Warnf("Failed to lock schedule of dentist %s: %+v", dentistID, err)
		return nil, err
	}

	conflict, err := u.scheduler.CheckConflict(ctx, tx, q)
	if err != nil {
		return nil, err
	}
	if conflict.HasConflict() {
		// Release the day lock before the suggestion reads.
		tx.Rollback()
		return u.conflictResult(ctx, q, conflict)
	}

	appointment := &entity.Appointment{
		PatientID:       patientID,
		DentistID:       dentistID,
		AppointmentDate: date,
		StartTime:       interval.Start,
		EndTime:         interval.End,
		Status:          entity.AppointmentStatusScheduled,
		Reason:          req.Reason,
		Notes:           req.Notes,
		CreatedBy:       actorID(ctx),
	}
	if treatment != nil {
		appointment.TreatmentID = &treatment.ID
	}
	appointment.SetTeeth(req.ToothNumbers)

	if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, actorID(ctx), entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.metrics.RecordAppointmentSaved("create")
	u.log.Infof("Appointment booked: id=%s, dentist=%s, date=%s, time=%s", appointment.ID, dentistID, req.AppointmentDate, interval)

	return &dto.AppointmentResult{Appointment: u.reload(ctx, appointment)}, nil
}

func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResult, error) {
	existing, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if existing == nil {
		return nil, ErrAppointmentNotFound
	}
	if existing.Status.IsTerminal() {
		return nil, ErrAppointmentNotEditable
	}

	updated := *existing
	updated.Patient, updated.Dentist, updated.Treatment = nil, nil, nil

	if req.DentistID != "" {
		if updated.DentistID, err = uuid.Parse(req.DentistID); err != nil {
			return nil, ErrDentistNotFound
		}
	}
	if req.AppointmentDate != "" {
		if updated.AppointmentDate, err = parseDate(req.AppointmentDate); err != nil {
			return nil, err
		}
	}

	treatment, err := u.findTreatment(ctx, req.TreatmentID)
	if err != nil {
		return nil, err
	}

	// Without an explicit end the appointment keeps its length, or takes the new treatment's.
	duration := existing.Interval().Duration()
	if treatment != nil {
		updated.TreatmentID = &treatment.ID
		duration = treatment.DurationMinutes
	}
	if req.StartTime != "" {
		if updated.StartTime, err = timeslot.Parse(req.StartTime); err != nil {
			return nil, err
		}
	}
	updated.EndTime = updated.StartTime.Add(duration)
	if req.EndTime != "" {
		if updated.EndTime, err = timeslot.Parse(req.EndTime); err != nil {
			return nil, err
		}
	}
	interval, err := newSameDayInterval(updated.StartTime, updated.EndTime)
	if err != nil {
		return nil, err
	}

	if req.Reason != nil {
		updated.Reason = *req.Reason
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	if req.ToothNumbers != nil {
		updated.SetTeeth(req.ToothNumbers)
	}

	moved := updated.DentistID != existing.DentistID ||
		!updated.AppointmentDate.Equal(existing.AppointmentDate) ||
		interval != existing.Interval()
	if moved {
		if u.inPast(updated.AppointmentDate, interval.Start) {
			return nil, ErrAppointmentInPast
		}
		if updated.DentistID != existing.DentistID {
			if err := u.ensureDentist(ctx, updated.DentistID); err != nil {
				return nil, err
			}
		}
		updated.Status = entity.AppointmentStatusRescheduled
	}

	q := service.SlotQuery{
		DentistID:            updated.DentistID,
		Date:                 updated.AppointmentDate,
		Interval:             interval,
		ExcludeAppointmentID: &existing.ID,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if moved {
		if err := u.appointmentRepo.LockDentistDay(ctx, tx, updated.DentistID, updated.AppointmentDate); err != nil {
			u.log.Warnf("Failed to lock schedule of dentist %s: %+v", updated.DentistID, err)
			return nil, err
		}

		conflict, err := u.scheduler.CheckConflict(ctx, tx, q)
		if err != nil {
			return nil, err
		}
		if conflict.HasConflict() {
			tx.Rollback()
			return u.conflictResult(ctx, q, conflict)
		}
	}

	// The read above ran outside tx; a status change since then (e.g. a cancellation) wins.
	affected, err := u.appointmentRepo.Update(ctx, tx, &updated, existing.Status)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}
	if affected == 0 {
		tx.Rollback()
		return nil, ErrAppointmentNotEditable
	}

	if err := u.auditService.LogUpdate(ctx, tx, actorID(ctx), entity.AuditActionAppointmentUpdate, "appointment", id.String(), converter.AppointmentToResponse(existing), converter.AppointmentToResponse(&updated)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if moved {
		u.metrics.RecordAppointmentSaved("reschedule")
		u.log.Infof("Appointment rescheduled: id=%s, dentist=%s, date=%s, time=%s", id, updated.DentistID, updated.AppointmentDate.Format("2006-01-02"), interval)
	}

	return &dto.AppointmentResult{Appointment: u.reload(ctx, &updated)}, nil
}

func (u *appointmentUsecase) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	existing, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if existing == nil {
		return nil, ErrAppointmentNotFound
	}

	next := entity.AppointmentStatus(req.Status)
	if !existing.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Conditional on the status we read, so a concurrent change is not overwritten.
	rows, err := u.appointmentRepo.UpdateStatus(ctx, tx, id, existing.Status, next)
	if err != nil {
		u.log.Warnf("Failed to update status of appointment %s: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidStatusTransition
	}

	metadata := map[string]interface{}{
		"entity":    "appointment",
		"entity_id": id.String(),
		"from":      string(existing.Status),
		"to":        string(next),
	}
	if req.Notes != "" {
		metadata["notes"] = req.Notes
	}
	if err := u.auditService.LogEvent(ctx, tx, actorID(ctx), entity.AuditActionAppointmentStatus, metadata); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment %s status changed: %s -> %s", id, existing.Status, next)

	existing.Status = next
	return converter.AppointmentToResponse(existing), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAllAppointments(ctx context.Context, req *dto.ListAppointmentsRequest) (*dto.AppointmentListResponse, error) {
	filter := &entity.AppointmentFilter{Status: entity.AppointmentStatus(req.Status)}
	if req.DentistID != "" {
		id, err := uuid.Parse(req.DentistID)
		if err != nil {
			return nil, ErrDentistNotFound
		}
		filter.DentistID = &id
	}
	if req.PatientID != "" {
		id, err := uuid.Parse(req.PatientID)
		if err != nil {
			return nil, ErrPatientNotFound
		}
		filter.PatientID = &id
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = &date
	}

	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// CheckConflict reports what a booking would run into without writing anything.
func (u *appointmentUsecase) CheckConflict(ctx context.Context, req *dto.SlotCheckRequest) (*dto.ConflictCheckResponse, error) {
	q, err := u.slotQuery(ctx, req)
	if err != nil {
		return nil, err
	}

	conflict, err := u.scheduler.CheckConflict(ctx, u.db, q)
	if err != nil {
		return nil, err
	}
	if !conflict.HasConflict() {
		return &dto.ConflictCheckResponse{HasConflict: false}, nil
	}

	result, err := u.conflictResult(ctx, q, conflict)
	if err != nil {
		return nil, err
	}

	return &dto.ConflictCheckResponse{
		HasConflict: true,
		Conflict:    &result.Conflict.Conflict,
		Suggestions: &result.Conflict.Suggestions,
	}, nil
}

func (u *appointmentUsecase) GetAvailability(ctx context.Context, req *dto.SlotCheckRequest) (*dto.AvailabilityResponse, error) {
	q, err := u.slotQuery(ctx, req)
	if err != nil {
		return nil, err
	}

	slots, err := u.scheduler.GetAvailableTimeSlots(ctx, q)
	if err != nil {
		return nil, err
	}
	next, err := u.scheduler.GetNextAvailableSlot(ctx, q)
	if err != nil {
		return nil, err
	}

	return converter.AvailabilityToResponse(q, slots, next), nil
}

func (u *appointmentUsecase) conflictResult(ctx context.Context, q service.SlotQuery, conflict *service.ConflictResult) (*dto.AppointmentResult, error) {
	u.metrics.RecordConflict()
	u.log.Infof("Slot %s on %s for dentist %s conflicts with appointment %s", q.Interval, q.Date.Format("2006-01-02"), q.DentistID, conflict.Existing.ID)

	started := time.Now()
	suggestions, err := u.scheduler.BuildSuggestions(ctx, q)
	if err != nil {
		u.log.Warnf("Failed to build slot suggestions: %+v", err)
		return nil, err
	}
	u.metrics.ObserveSuggestions(time.Since(started))

	return &dto.AppointmentResult{Conflict: converter.ConflictToResponse(conflict, suggestions)}, nil
}

func (u *appointmentUsecase) slotQuery(ctx context.Context, req *dto.SlotCheckRequest) (service.SlotQuery, error) {
	dentistID, err := uuid.Parse(req.DentistID)
	if err != nil {
		return service.SlotQuery{}, ErrDentistNotFound
	}
	date, err := parseDate(req.AppointmentDate)
	if err != nil {
		return service.SlotQuery{}, err
	}
	interval, err := timeslot.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return service.SlotQuery{}, err
	}
	if err := u.ensureDentist(ctx, dentistID); err != nil {
		return service.SlotQuery{}, err
	}

	q := service.SlotQuery{DentistID: dentistID, Date: date, Interval: interval}
	if req.ExcludeAppointmentID != "" {
		excludeID, err := uuid.Parse(req.ExcludeAppointmentID)
		if err != nil {
			return service.SlotQuery{}, ErrAppointmentNotFound
		}
		q.ExcludeAppointmentID = &excludeID
	}
	return q, nil
}

func (u *appointmentUsecase) findTreatment(ctx context.Context, rawID string) (*entity.Treatment, error) {
	if rawID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrTreatmentNotFound
	}
	treatment, err := u.treatmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find treatment %s: %+v", id, err)
		return nil, err
	}
	if treatment == nil || !treatment.Active() {
		return nil, ErrTreatmentNotFound
	}
	return treatment, nil
}

func (u *appointmentUsecase) ensurePatient(ctx context.Context, id uuid.UUID) error {
	patient, err := u.patientRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}
	if patient.IsActive != nil && !*patient.IsActive {
		return ErrPatientInactive
	}
	return nil
}

func (u *appointmentUsecase) ensureDentist(ctx context.Context, id uuid.UUID) error {
	dentist, err := u.dentistRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find dentist %s: %+v", id, err)
		return err
	}
	if dentist == nil {
		return ErrDentistNotFound
	}
	if !dentist.Active() {
		return ErrDentistInactive
	}
	return nil
}

func (u *appointmentUsecase) inPast(date time.Time, start timeslot.TimeOfDay) bool {
	now := u.now()
	startsAt := time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, now.Location())
	return startsAt.Before(now)
}

// reload fetches the appointment with its relations, falling back to what was written.
func (u *appointmentUsecase) reload(ctx context.Context, appointment *entity.Appointment) *dto.AppointmentResponse {
	full, err := u.appointmentRepo.FindByID(ctx, u.db, appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment)
	}
	return converter.AppointmentToResponse(full)
}

func newSameDayInterval(start, end timeslot.TimeOfDay) (timeslot.Interval, error) {
	if !end.Valid() {
		return timeslot.Interval{}, fmt.Errorf("%w: %s ends after midnight", timeslot.ErrInvalidInterval, start)
	}
	return timeslot.NewInterval(start, end)
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return entity.DateOnly(date), nil
}

func actorID(ctx context.Context) *uuid.UUID {
	if id, ok := middleware.GetUserIDFromContext(ctx); ok {
		return &id
	}
	return nil
}
