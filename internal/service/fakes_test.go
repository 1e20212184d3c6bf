package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/timeslot"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errStoreDown = errors.New("store unavailable")

// fakeAppointmentRepo answers the read path of the scheduling service from memory.
type fakeAppointmentRepo struct {
	appointments []entity.Appointment
	err          error
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, db *gorm.DB, a *entity.Appointment) error {
	return errors.New("not implemented")
}

func (f *fakeAppointmentRepo) Update(ctx context.Context, db *gorm.DB, a *entity.Appointment, from entity.AppointmentStatus) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAppointmentRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAppointmentRepo) FindActiveByDentistAndDate(ctx context.Context, db *gorm.DB, dentistID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]entity.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.DentistID != dentistID || !a.AppointmentDate.Equal(date) {
			continue
		}
		if a.Status == entity.AppointmentStatusCancelled {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeAppointmentRepo) LockDentistDay(ctx context.Context, db *gorm.DB, dentistID uuid.UUID, date time.Time) error {
	return nil
}

type fakeDentistRepo struct {
	dentists []entity.User
	err      error
}

func (f *fakeDentistRepo) CreateProfile(ctx context.Context, db *gorm.DB, profile *entity.DentistProfile) error {
	return errors.New("not implemented")
}

func (f *fakeDentistRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	for i := range f.dentists {
		if f.dentists[i].ID == id {
			return &f.dentists[i], nil
		}
	}
	return nil, nil
}

func (f *fakeDentistRepo) FindAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]entity.User, error) {
	return f.dentists, f.err
}

func (f *fakeDentistRepo) FindActive(ctx context.Context, db *gorm.DB, excludeID *uuid.UUID) ([]entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.User
	for _, d := range f.dentists {
		if !d.Active() {
			continue
		}
		if excludeID != nil && d.ID == *excludeID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDentistRepo) Update(ctx context.Context, db *gorm.DB, dentist *entity.User) error {
	return errors.New("not implemented")
}

func newDentist(first, last string, active bool) entity.User {
	return entity.User{
		ID:        uuid.New(),
		RoleID:    entity.RoleIDDentist,
		FirstName: first,
		LastName:  last,
		IsActive:  entity.BoolPtr(active),
	}
}

func newAppointment(dentistID uuid.UUID, date time.Time, start, end string, status entity.AppointmentStatus) entity.Appointment {
	return entity.Appointment{
		ID:              uuid.New(),
		PatientID:       uuid.New(),
		DentistID:       dentistID,
		AppointmentDate: date,
		StartTime:       timeslot.MustParse(start),
		EndTime:         timeslot.MustParse(end),
		Status:          status,
	}
}

func mustInterval(start, end string) timeslot.Interval {
	iv, err := timeslot.ParseInterval(start, end)
	if err != nil {
		panic(err)
	}
	return iv
}
