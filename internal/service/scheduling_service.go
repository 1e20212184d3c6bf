package service

import (
	"context"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/repository"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/timeslot"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// SchedulingOptions configures the suggestion grid.
type SchedulingOptions struct {
	Grid           timeslot.Grid
	MaxSuggestions int
	// MergeFreeCells proposes slots of the requested length spanning contiguous free
	// grid cells instead of single grid cells.
	MergeFreeCells bool
}

// DefaultSchedulingOptions is 09:00-18:00 in 30 minute cells, five suggestions.
func DefaultSchedulingOptions() SchedulingOptions {
	return SchedulingOptions{Grid: timeslot.DefaultGrid(), MaxSuggestions: 5}
}

// SlotQuery identifies a candidate interval for one dentist-day.
type SlotQuery struct {
	DentistID            uuid.UUID
	Date                 time.Time
	Interval             timeslot.Interval
	ExcludeAppointmentID *uuid.UUID
}

// ConflictResult carries the first existing appointment colliding with a SlotQuery.
type ConflictResult struct {
	Existing *entity.Appointment
}

func (r *ConflictResult) HasConflict() bool {
	return r != nil && r.Existing != nil
}

// AlternativeDoctor is another active dentist free for the requested interval.
type AlternativeDoctor struct {
	ID        uuid.UUID
	Name      string
	Available bool
}

// SlotSuggestionSet is computed on demand and never persisted.
type SlotSuggestionSet struct {
	AlternativeDoctors []AlternativeDoctor
	AvailableTimeSlots []timeslot.Interval
	NextAvailableSlot  *timeslot.Interval
}

type SchedulingService interface {
	// CheckConflict runs against db so callers can check inside their own transaction.
	CheckConflict(ctx context.Context, db *gorm.DB, q SlotQuery) (*ConflictResult, error)
	GetAvailableTimeSlots(ctx context.Context, q SlotQuery) ([]timeslot.Interval, error)
	GetNextAvailableSlot(ctx context.Context, q SlotQuery) (*timeslot.Interval, error)
	GetAlternativeDoctors(ctx context.Context, q SlotQuery) ([]AlternativeDoctor, error)
	BuildSuggestions(ctx context.Context, q SlotQuery) (*SlotSuggestionSet, error)
}

type schedulingService struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	dentistRepo     repository.DentistRepository
	opts            SchedulingOptions
}

func NewSchedulingService(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	dentistRepo repository.DentistRepository,
	opts SchedulingOptions,
) SchedulingService {
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = DefaultSchedulingOptions().MaxSuggestions
	}
	return &schedulingService{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		dentistRepo:     dentistRepo,
		opts:            opts,
	}
}

func (s *schedulingService) CheckConflict(ctx context.Context, db *gorm.DB, q SlotQuery) (*ConflictResult, error) {
	appointments, err := s.appointmentRepo.FindActiveByDentistAndDate(ctx, db, q.DentistID, entity.DateOnly(q.Date), q.ExcludeAppointmentID)
	if err != nil {
		s.log.Warnf("Failed to load appointments of dentist %s on %s: %+v", q.DentistID, q.Date.Format("2006-01-02"), err)
		return nil, err
	}

	for i := range appointments {
		existing := &appointments[i]
		if !existing.BlocksSchedule() {
			continue
		}
		if timeslot.Conflicts(existing.Interval(), q.Interval) {
			return &ConflictResult{Existing: existing}, nil
		}
	}

	return &ConflictResult{}, nil
}

// GetAvailableTimeSlots returns at most MaxSuggestions free grid slots, in chronological
// order, whose length covers the requested duration.
func (s *schedulingService) GetAvailableTimeSlots(ctx context.Context, q SlotQuery) ([]timeslot.Interval, error) {
	appointments, err := s.appointmentRepo.FindActiveByDentistAndDate(ctx, s.db, q.DentistID, entity.DateOnly(q.Date), q.ExcludeAppointmentID)
	if err != nil {
		s.log.Warnf("Failed to load appointments of dentist %s on %s: %+v", q.DentistID, q.Date.Format("2006-01-02"), err)
		return nil, err
	}

	busy := make([]timeslot.Interval, 0, len(appointments))
	for i := range appointments {
		if appointments[i].BlocksSchedule() {
			busy = append(busy, appointments[i].Interval())
		}
	}

	requested := q.Interval.Duration()
	cells := s.opts.Grid.Slots()
	if s.opts.MergeFreeCells {
		cells = s.opts.Grid.Candidates(requested)
	}

	slots := make([]timeslot.Interval, 0, s.opts.MaxSuggestions)
	for _, cell := range cells {
		if cell.Duration() < requested {
			continue
		}
		if timeslot.ConflictsAny(cell, busy) {
			continue
		}
		slots = append(slots, cell)
		if len(slots) == s.opts.MaxSuggestions {
			break
		}
	}

	s.log.Debugf("Found %d free slots for dentist %s on %s", len(slots), q.DentistID, q.Date.Format("2006-01-02"))
	return slots, nil
}

// GetNextAvailableSlot picks the first suggested slot starting strictly after the
// requested start, falling back to the first suggestion.
func (s *schedulingService) GetNextAvailableSlot(ctx context.Context, q SlotQuery) (*timeslot.Interval, error) {
	slots, err := s.GetAvailableTimeSlots(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, nil
	}

	for i := range slots {
		if slots[i].Start > q.Interval.Start {
			return &slots[i], nil
		}
	}
	return &slots[0], nil
}

// GetAlternativeDoctors lists active dentists other than q.DentistID that are free for
// the interval, in store order.
func (s *schedulingService) GetAlternativeDoctors(ctx context.Context, q SlotQuery) ([]AlternativeDoctor, error) {
	dentists, err := s.dentistRepo.FindActive(ctx, s.db, &q.DentistID)
	if err != nil {
		s.log.Warnf("Failed to load active dentists: %+v", err)
		return nil, err
	}

	alternatives := make([]AlternativeDoctor, 0, len(dentists))
	for i := range dentists {
		dentist := &dentists[i]
		if !dentist.Active() {
			continue
		}

		result, err := s.CheckConflict(ctx, s.db, SlotQuery{
			DentistID:            dentist.ID,
			Date:                 q.Date,
			Interval:             q.Interval,
			ExcludeAppointmentID: q.ExcludeAppointmentID,
		})
		if err != nil {
			return nil, err
		}
		if result.HasConflict() {
			continue
		}

		alternatives = append(alternatives, AlternativeDoctor{
			ID:        dentist.ID,
			Name:      dentist.DentistDisplayName(),
			Available: true,
		})
	}

	return alternatives, nil
}

// BuildSuggestions runs the three suggestion queries concurrently. They only read and
// write to their own result variable.
func (s *schedulingService) BuildSuggestions(ctx context.Context, q SlotQuery) (*SlotSuggestionSet, error) {
	var (
		alternatives []AlternativeDoctor
		slots        []timeslot.Interval
		next         *timeslot.Interval
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		alternatives, err = s.GetAlternativeDoctors(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		slots, err = s.GetAvailableTimeSlots(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		next, err = s.GetNextAvailableSlot(gctx, q)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &SlotSuggestionSet{
		AlternativeDoctors: alternatives,
		AvailableTimeSlots: slots,
		NextAvailableSlot:  next,
	}, nil
}
