package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/timeslot"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan10 = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestScheduler(appts *fakeAppointmentRepo, dentists *fakeDentistRepo, opts SchedulingOptions) SchedulingService {
	return NewSchedulingService(nil, quietLogger(), appts, dentists, opts)
}

func starts(slots []timeslot.Interval) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.String())
	}
	return out
}

func TestCheckConflict(t *testing.T) {
	dentist := newDentist("Ana", "Silva", true)
	existing := newAppointment(dentist.ID, jan10, "09:00", "11:00", entity.AppointmentStatusScheduled)
	existing.Patient = &entity.Patient{FirstName: "Maria", LastName: "Lopez"}

	repo := &fakeAppointmentRepo{appointments: []entity.Appointment{existing}}
	svc := newTestScheduler(repo, &fakeDentistRepo{}, DefaultSchedulingOptions())

	tests := []struct {
		name     string
		interval timeslot.Interval
		conflict bool
	}{
		{"nested", mustInterval("09:30", "10:00"), true},
		{"identical", mustInterval("09:00", "11:00"), true},
		{"containing", mustInterval("08:30", "11:30"), true},
		{"overlapping end", mustInterval("10:30", "11:30"), true},
		{"touching after", mustInterval("11:00", "11:30"), false},
		{"touching before", mustInterval("08:30", "09:00"), false},
		{"disjoint", mustInterval("14:00", "14:30"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.CheckConflict(context.Background(), nil, SlotQuery{
				DentistID: dentist.ID,
				Date:      jan10,
				Interval:  tt.interval,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.conflict, result.HasConflict())
			if tt.conflict {
				assert.Equal(t, existing.ID, result.Existing.ID)
				assert.Equal(t, "Maria Lopez", result.Existing.PatientDisplayName())
			}
		})
	}
}

func TestCheckConflictScope(t *testing.T) {
	dentist := newDentist("Ana", "Silva", true)
	other := newDentist("Ben", "Cole", true)
	cancelled := newAppointment(dentist.ID, jan10, "09:00", "09:30", entity.AppointmentStatusCancelled)
	edited := newAppointment(dentist.ID, jan10, "10:00", "10:30", entity.AppointmentStatusScheduled)
	otherDentist := newAppointment(other.ID, jan10, "11:00", "11:30", entity.AppointmentStatusConfirmed)
	otherDay := newAppointment(dentist.ID, jan10.AddDate(0, 0, 1), "12:00", "12:30", entity.AppointmentStatusScheduled)

	repo := &fakeAppointmentRepo{appointments: []entity.Appointment{cancelled, edited, otherDentist, otherDay}}
	svc := newTestScheduler(repo, &fakeDentistRepo{}, DefaultSchedulingOptions())
	ctx := context.Background()

	t.Run("cancelled appointments do not block", func(t *testing.T) {
		result, err := svc.CheckConflict(ctx, nil, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("09:00", "09:30")})
		require.NoError(t, err)
		assert.False(t, result.HasConflict())
	})

	t.Run("excluded appointment is ignored", func(t *testing.T) {
		result, err := svc.CheckConflict(ctx, nil, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("10:00", "10:30"), ExcludeAppointmentID: &edited.ID})
		require.NoError(t, err)
		assert.False(t, result.HasConflict())

		result, err = svc.CheckConflict(ctx, nil, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("10:00", "10:30")})
		require.NoError(t, err)
		assert.True(t, result.HasConflict())
	})

	t.Run("other dentist and other day are out of scope", func(t *testing.T) {
		result, err := svc.CheckConflict(ctx, nil, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("11:00", "12:30")})
		require.NoError(t, err)
		assert.False(t, result.HasConflict())
	})

	t.Run("store errors propagate", func(t *testing.T) {
		failing := newTestScheduler(&fakeAppointmentRepo{err: errStoreDown}, &fakeDentistRepo{}, DefaultSchedulingOptions())
		_, err := failing.CheckConflict(ctx, nil, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("11:00", "12:30")})
		assert.ErrorIs(t, err, errStoreDown)
	})
}

func TestGetAvailableTimeSlots(t *testing.T) {
	dentist := newDentist("Ana", "Silva", true)
	ctx := context.Background()

	t.Run("skips the booked cell", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointments: []entity.Appointment{
			newAppointment(dentist.ID, jan10, "09:00", "09:30", entity.AppointmentStatusScheduled),
		}}
		svc := newTestScheduler(repo, &fakeDentistRepo{}, DefaultSchedulingOptions())

		slots, err := svc.GetAvailableTimeSlots(ctx, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("09:00", "09:30")})
		require.NoError(t, err)
		assert.Equal(t, []string{"09:30", "10:00", "10:30", "11:00", "11:30"}, starts(slots))
		for _, s := range slots {
			assert.Equal(t, 30, s.Duration())
		}
	})

	t.Run("skips every overlapped cell", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointments: []entity.Appointment{
			newAppointment(dentist.ID, jan10, "09:15", "10:15", entity.AppointmentStatusConfirmed),
			newAppointment(dentist.ID, jan10, "11:00", "11:30", entity.AppointmentStatusScheduled),
			newAppointment(dentist.ID, jan10, "10:30", "11:00", entity.AppointmentStatusCancelled),
		}}
		svc := newTestScheduler(repo, &fakeDentistRepo{}, DefaultSchedulingOptions())

		slots, err := svc.GetAvailableTimeSlots(ctx, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("09:00", "09:30")})
		require.NoError(t, err)
		assert.Equal(t, []string{"10:30", "11:30", "12:00", "12:30", "13:00"}, starts(slots))
	})

	t.Run("fixed grid cannot serve long requests", func(t *testing.T) {
		svc := newTestScheduler(&fakeAppointmentRepo{}, &fakeDentistRepo{}, DefaultSchedulingOptions())

		slots, err := svc.GetAvailableTimeSlots(ctx, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("09:00", "10:00")})
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("merged cells serve long requests", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointments: []entity.Appointment{
			newAppointment(dentist.ID, jan10, "09:30", "10:00", entity.AppointmentStatusScheduled),
		}}
		opts := DefaultSchedulingOptions()
		opts.MergeFreeCells = true
		svc := newTestScheduler(repo, &fakeDentistRepo{}, opts)

		slots, err := svc.GetAvailableTimeSlots(ctx, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("09:00", "10:00")})
		require.NoError(t, err)
		assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30", "12:00"}, starts(slots))
		for _, s := range slots {
			assert.Equal(t, 60, s.Duration())
		}
	})

	t.Run("fully booked day", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointments: []entity.Appointment{
			newAppointment(dentist.ID, jan10, "09:00", "18:00", entity.AppointmentStatusScheduled),
		}}
		svc := newTestScheduler(repo, &fakeDentistRepo{}, DefaultSchedulingOptions())

		slots, err := svc.GetAvailableTimeSlots(ctx, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("09:00", "09:30")})
		require.NoError(t, err)
		assert.Empty(t, slots)
	})
}

func TestGetNextAvailableSlot(t *testing.T) {
	dentist := newDentist("Ana", "Silva", true)
	ctx := context.Background()

	t.Run("first slot after the requested start", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointments: []entity.Appointment{
			newAppointment(dentist.ID, jan10, "10:00", "10:30", entity.AppointmentStatusScheduled),
		}}
		svc := newTestScheduler(repo, &fakeDentistRepo{}, DefaultSchedulingOptions())

		next, err := svc.GetNextAvailableSlot(ctx, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("10:00", "10:30")})
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, "10:30", next.Start.String())
	})

	t.Run("falls back to the first suggestion", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointments: []entity.Appointment{
			newAppointment(dentist.ID, jan10, "11:00", "18:00", entity.AppointmentStatusScheduled),
		}}
		svc := newTestScheduler(repo, &fakeDentistRepo{}, DefaultSchedulingOptions())

		next, err := svc.GetNextAvailableSlot(ctx, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("17:00", "17:30")})
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, "09:00", next.Start.String())
	})

	t.Run("none when the day is full", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appointments: []entity.Appointment{
			newAppointment(dentist.ID, jan10, "09:00", "18:00", entity.AppointmentStatusScheduled),
		}}
		svc := newTestScheduler(repo, &fakeDentistRepo{}, DefaultSchedulingOptions())

		next, err := svc.GetNextAvailableSlot(ctx, SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("09:00", "09:30")})
		require.NoError(t, err)
		assert.Nil(t, next)
	})
}

func TestGetAlternativeDoctors(t *testing.T) {
	requested := newDentist("Ana", "Silva", true)
	free := newDentist("Ben", "Cole", true)
	busy := newDentist("Carla", "Diaz", true)
	inactive := newDentist("Dan", "Egan", false)
	freeAfterCancel := newDentist("Eva", "Fox", true)

	repo := &fakeAppointmentRepo{appointments: []entity.Appointment{
		newAppointment(requested.ID, jan10, "09:00", "09:30", entity.AppointmentStatusScheduled),
		newAppointment(busy.ID, jan10, "09:00", "10:00", entity.AppointmentStatusConfirmed),
		newAppointment(freeAfterCancel.ID, jan10, "09:00", "09:30", entity.AppointmentStatusCancelled),
	}}
	dentists := &fakeDentistRepo{dentists: []entity.User{requested, free, busy, inactive, freeAfterCancel}}
	svc := newTestScheduler(repo, dentists, DefaultSchedulingOptions())

	alternatives, err := svc.GetAlternativeDoctors(context.Background(), SlotQuery{
		DentistID: requested.ID,
		Date:      jan10,
		Interval:  mustInterval("09:00", "09:30"),
	})
	require.NoError(t, err)
	require.Len(t, alternatives, 2)
	assert.Equal(t, AlternativeDoctor{ID: free.ID, Name: "Dr. Ben Cole", Available: true}, alternatives[0])
	assert.Equal(t, AlternativeDoctor{ID: freeAfterCancel.ID, Name: "Dr. Eva Fox", Available: true}, alternatives[1])

	dentists.err = errStoreDown
	_, err = svc.GetAlternativeDoctors(context.Background(), SlotQuery{DentistID: requested.ID, Date: jan10, Interval: mustInterval("09:00", "09:30")})
	assert.ErrorIs(t, err, errStoreDown)
}

func TestBuildSuggestions(t *testing.T) {
	requested := newDentist("Ana", "Silva", true)
	free := newDentist("Ben", "Cole", true)

	repo := &fakeAppointmentRepo{appointments: []entity.Appointment{
		newAppointment(requested.ID, jan10, "09:00", "09:30", entity.AppointmentStatusScheduled),
	}}
	dentists := &fakeDentistRepo{dentists: []entity.User{requested, free}}
	svc := newTestScheduler(repo, dentists, DefaultSchedulingOptions())

	set, err := svc.BuildSuggestions(context.Background(), SlotQuery{
		DentistID: requested.ID,
		Date:      jan10,
		Interval:  mustInterval("09:00", "09:30"),
	})
	require.NoError(t, err)
	require.Len(t, set.AlternativeDoctors, 1)
	assert.Equal(t, free.ID, set.AlternativeDoctors[0].ID)
	assert.Equal(t, []string{"09:30", "10:00", "10:30", "11:00", "11:30"}, starts(set.AvailableTimeSlots))
	require.NotNil(t, set.NextAvailableSlot)
	assert.Equal(t, "09:30", set.NextAvailableSlot.Start.String())

	failing := newTestScheduler(&fakeAppointmentRepo{err: errStoreDown}, dentists, DefaultSchedulingOptions())
	_, err = failing.BuildSuggestions(context.Background(), SlotQuery{DentistID: uuid.New(), Date: jan10, Interval: mustInterval("09:00", "09:30")})
	assert.ErrorIs(t, err, errStoreDown)
}

func TestNewSchedulingServiceDefaultsLimit(t *testing.T) {
	dentist := newDentist("Ana", "Silva", true)
	svc := newTestScheduler(&fakeAppointmentRepo{}, &fakeDentistRepo{}, SchedulingOptions{Grid: timeslot.DefaultGrid()})

	slots, err := svc.GetAvailableTimeSlots(context.Background(), SlotQuery{DentistID: dentist.ID, Date: jan10, Interval: mustInterval("09:00", "09:30")})
	require.NoError(t, err)
	assert.Len(t, slots, 5)
}
