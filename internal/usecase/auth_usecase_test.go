package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/config"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/service"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/jwt"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	uc     *authUsecase
	mock   sqlmock.Sqlmock
	users  *fakeUserRepo
	audit  *fakeAuditLogRepo
	tokens *fakeTokenStore
	jwt    *jwt.JWTService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db, mock := newMockDB(t)
	log := quietLogger()

	f := &authFixture{
		mock:   mock,
		users:  newFakeUserRepo(),
		audit:  &fakeAuditLogRepo{},
		tokens: newFakeTokenStore(),
		jwt: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
		}),
	}
	f.uc = NewAuthUsecase(db, log, f.users, &fakeDentistRepo{}, service.NewAuditService(log, f.audit), f.jwt, f.tokens).(*authUsecase)
	return f
}

func (f *authFixture) addUser(t *testing.T, email, password string, active bool) entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := entity.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Rita",
		LastName:  "Alves",
		RoleID:    entity.RoleIDReceptionist,
		IsActive:  entity.BoolPtr(active),
	}
	require.NoError(t, f.users.Create(context.Background(), nil, &user))
	return user
}

func TestLoginIssuesStoredTokens(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "rita@clinic.test", "secret-pass", true)

	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "Rita@Clinic.test", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, int64(900), tokens.ExpiresIn)

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleIDReceptionist, claims.RoleID)

	valid, err := f.tokens.AccessValid(context.Background(), user.ID, claims.TokenID)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, []string{entity.AuditActionUserLogin}, f.audit.actions())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "rita@clinic.test", "secret-pass", true)
	f.addUser(t, "gone@clinic.test", "secret-pass", false)

	_, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "rita@clinic.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.uc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@clinic.test", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.uc.Login(context.Background(), &dto.LoginRequest{Email: "gone@clinic.test", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	f.addUser(t, "rita@clinic.test", "secret-pass", true)

	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "rita@clinic.test", Password: "secret-pass"})
	require.NoError(t, err)

	refreshed, err := f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.AccessToken, refreshed.AccessToken)

	_, err = f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// An access token cannot be used as a refresh token.
	_, err = f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: refreshed.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesTokens(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addUser(t, "rita@clinic.test", "secret-pass", true)

	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "rita@clinic.test", Password: "secret-pass"})
	require.NoError(t, err)
	access, err := f.jwt.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	refresh, err := f.jwt.ValidateToken(tokens.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout(context.Background(), user.ID, access.TokenID, refresh.TokenID))

	valid, err := f.tokens.AccessValid(context.Background(), user.ID, access.TokenID)
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.Contains(t, f.audit.actions(), entity.AuditActionUserLogout)
}

func TestCreateStaffDentistGetsProfile(t *testing.T) {
	f := newAuthFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	got, err := f.uc.CreateStaff(context.Background(), &dto.CreateStaffRequest{
		Email:          "Maria@Clinic.test",
		Password:       "long-enough",
		FirstName:      "Maria",
		LastName:       "Souza",
		Role:           "dentist",
		LicenseNumber:  "CRO-1234",
		Specialization: "Orthodontics",
	})
	require.NoError(t, err)
	assert.Equal(t, "maria@clinic.test", got.Email)
	assert.Equal(t, entity.RoleDentist, got.Role)
	require.NotNil(t, got.DentistProfile)
	assert.Equal(t, "CRO-1234", got.DentistProfile.LicenseNumber)
	assert.Equal(t, []string{entity.AuditActionStaffCreate}, f.audit.actions())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.users.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.uc.CreateStaff(context.Background(), &dto.CreateStaffRequest{
		Email:     "rita@clinic.test",
		Password:  "long-enough",
		FirstName: "Rita",
		LastName:  "Alves",
		Role:      "receptionist",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.NoError(t, f.mock.ExpectationsWereMet())

	_, err = f.uc.CreateStaff(context.Background(), &dto.CreateStaffRequest{Role: "janitor"})
	assert.ErrorIs(t, err, ErrRoleNotFound)
}
