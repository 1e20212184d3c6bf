package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB returns a gorm handle whose only traffic in these tests is BEGIN/COMMIT/ROLLBACK.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type lockCall struct {
	DentistID uuid.UUID
	Date      time.Time
}

type fakeAppointmentRepo struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]entity.Appointment
	order        []uuid.UUID
	patients     *fakePatientRepo
	locks        []lockCall
	statusRows   *int64
}

func newFakeAppointmentRepo(patients *fakePatientRepo) *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: map[uuid.UUID]entity.Appointment{}, patients: patients}
}

func (f *fakeAppointmentRepo) add(a entity.Appointment) entity.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.appointments[a.ID] = a
	f.order = append(f.order, a.ID)
	return a
}

func (f *fakeAppointmentRepo) withPatient(a entity.Appointment) entity.Appointment {
	if f.patients != nil {
		if p, ok := f.patients.get(a.PatientID); ok {
			a.Patient = &p
		}
	}
	return a
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, db *gorm.DB, a *entity.Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.add(*a)
	return nil
}

func (f *fakeAppointmentRepo) Update(ctx context.Context, db *gorm.DB, a *entity.Appointment, from entity.AppointmentStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.appointments[a.ID]
	if !ok {
		return 0, errors.New("missing appointment")
	}
	if stored.Status != from {
		return 0, nil
	}
	f.appointments[a.ID] = *a
	return 1, nil
}

func (f *fakeAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	f.mu.RLock()
	a, ok := f.appointments[id]
	f.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	a = f.withPatient(a)
	return &a, nil
}

func (f *fakeAppointmentRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []entity.Appointment
	for _, id := range f.order {
		a := f.appointments[id]
		if filter.DentistID != nil && a.DentistID != *filter.DentistID {
			continue
		}
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.Date != nil && !a.AppointmentDate.Equal(*filter.Date) {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) FindActiveByDentistAndDate(ctx context.Context, db *gorm.DB, dentistID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]entity.Appointment, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []entity.Appointment
	for _, id := range f.order {
		a := f.appointments[id]
		if a.DentistID != dentistID || !a.AppointmentDate.Equal(date) || a.Status == entity.AppointmentStatusCancelled {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		out = append(out, f.withPatient(a))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	if f.statusRows != nil {
		return *f.statusRows, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok || a.Status != from {
		return 0, nil
	}
	a.Status = to
	f.appointments[id] = a
	return 1, nil
}

func (f *fakeAppointmentRepo) LockDentistDay(ctx context.Context, db *gorm.DB, dentistID uuid.UUID, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks = append(f.locks, lockCall{DentistID: dentistID, Date: date})
	return nil
}

func (f *fakeAppointmentRepo) count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.appointments)
}

type fakePatientRepo struct {
	mu       sync.RWMutex
	patients map[uuid.UUID]entity.Patient
	order    []uuid.UUID
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: map[uuid.UUID]entity.Patient{}}
}

func (f *fakePatientRepo) get(id uuid.UUID) (entity.Patient, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.patients[id]
	return p, ok
}

func (f *fakePatientRepo) Create(ctx context.Context, db *gorm.DB, p *entity.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.patients[p.ID] = *p
	f.order = append(f.order, p.ID)
	return nil
}

func (f *fakePatientRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	p, ok := f.get(id)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePatientRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.PatientFilter) ([]entity.Patient, int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var all []entity.Patient
	for _, id := range f.order {
		all = append(all, f.patients[id])
	}
	total := int64(len(all))
	if filter.Offset >= len(all) {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[filter.Offset:end], total, nil
}

func (f *fakePatientRepo) Update(ctx context.Context, db *gorm.DB, p *entity.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patients[p.ID] = *p
	return nil
}

type fakeDentistRepo struct {
	mu        sync.RWMutex
	dentists  []entity.User
	updateErr error
}

func (f *fakeDentistRepo) add(d entity.User) entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.RoleID = entity.RoleIDDentist
	f.dentists = append(f.dentists, d)
	return d
}

func (f *fakeDentistRepo) CreateProfile(ctx context.Context, db *gorm.DB, profile *entity.DentistProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.dentists {
		if f.dentists[i].ID == profile.UserID {
			p := *profile
			f.dentists[i].DentistProfile = &p
		}
	}
	return nil
}

func (f *fakeDentistRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, d := range f.dentists {
		if d.ID == id {
			if d.DentistProfile != nil {
				p := *d.DentistProfile
				d.DentistProfile = &p
			}
			return &d, nil
		}
	}
	return nil, nil
}

func (f *fakeDentistRepo) FindAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]entity.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []entity.User
	for _, d := range f.dentists {
		if activeOnly && !d.Active() {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDentistRepo) FindActive(ctx context.Context, db *gorm.DB, excludeID *uuid.UUID) ([]entity.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []entity.User
	for _, d := range f.dentists {
		if !d.Active() || (excludeID != nil && d.ID == *excludeID) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDentistRepo) Update(ctx context.Context, db *gorm.DB, dentist *entity.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.dentists {
		if f.dentists[i].ID == dentist.ID {
			f.dentists[i] = *dentist
		}
	}
	return nil
}

type fakeTreatmentRepo struct {
	treatments map[uuid.UUID]entity.Treatment
	createErr  error
}

func newFakeTreatmentRepo() *fakeTreatmentRepo {
	return &fakeTreatmentRepo{treatments: map[uuid.UUID]entity.Treatment{}}
}

func (f *fakeTreatmentRepo) Create(ctx context.Context, db *gorm.DB, t *entity.Treatment) error {
	if f.createErr != nil {
		return f.createErr
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	f.treatments[t.ID] = *t
	return nil
}

func (f *fakeTreatmentRepo) FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.Treatment, int64, error) {
	var out []entity.Treatment
	for _, t := range f.treatments {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (f *fakeTreatmentRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Treatment, error) {
	t, ok := f.treatments[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeTreatmentRepo) Update(ctx context.Context, db *gorm.DB, t *entity.Treatment) error {
	f.treatments[t.ID] = *t
	return nil
}

func (f *fakeTreatmentRepo) Deactivate(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	t, ok := f.treatments[id]
	if !ok || !t.Active() {
		return 0, nil
	}
	t.IsActive = entity.BoolPtr(false)
	f.treatments[id] = t
	return 1, nil
}

type fakeUserRepo struct {
	users     map[uuid.UUID]entity.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]entity.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type fakeAuditLogRepo struct {
	mu   sync.Mutex
	logs []entity.AuditLog
}

func (f *fakeAuditLogRepo) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	log.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeAuditLogRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []entity.AuditLog
	for i := len(f.logs) - 1; i >= 0; i-- {
		l := f.logs[i]
		kind, id := l.Subject()
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.Entity != "" && kind != filter.Entity {
			continue
		}
		if filter.EntityID != "" && id != filter.EntityID {
			continue
		}
		if filter.UserID != nil && (l.UserID == nil || *l.UserID != *filter.UserID) {
			continue
		}
		matched = append(matched, l)
	}

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []entity.AuditLog{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (f *fakeAuditLogRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.logs {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, nil
}

func (f *fakeAuditLogRepo) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.logs))
	for i, l := range f.logs {
		out[i] = l.Action
	}
	return out
}

type fakeTokenStore struct {
	access  map[string]bool
	refresh map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{access: map[string]bool{}, refresh: map[string]bool{}}
}

func tokenKey(userID uuid.UUID, tokenID string) string {
	return userID.String() + ":" + tokenID
}

func (f *fakeTokenStore) StoreAccess(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	f.access[tokenKey(userID, tokenID)] = true
	return nil
}

func (f *fakeTokenStore) StoreRefresh(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	f.refresh[tokenKey(userID, tokenID)] = true
	return nil
}

func (f *fakeTokenStore) AccessValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	return f.access[tokenKey(userID, tokenID)], nil
}

func (f *fakeTokenStore) ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	key := tokenKey(userID, tokenID)
	existed := f.refresh[key]
	delete(f.refresh, key)
	return existed, nil
}

func (f *fakeTokenStore) Revoke(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	delete(f.access, tokenKey(userID, accessTokenID))
	delete(f.refresh, tokenKey(userID, refreshTokenID))
	return nil
}

func (f *fakeTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	prefix := userID.String() + ":"
	for k := range f.access {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(f.access, k)
		}
	}
	for k := range f.refresh {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(f.refresh, k)
		}
	}
	return nil
}
