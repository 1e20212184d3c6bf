package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/config"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/http/middleware"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/usecase"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/jwt"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthUsecase struct {
	usecase.AuthUsecase
	loginErr   error
	logoutArgs []string
}

func (s *stubAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}, nil
}

func (s *stubAuthUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	s.logoutArgs = []string{userID.String(), accessTokenID, refreshTokenID}
	return nil
}

func newTestJWT() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{Secret: "handler-secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		body dto.LoginRequest
		code int
	}{
		{"ok", nil, dto.LoginRequest{Email: "rita@clinic.test", Password: "x"}, http.StatusOK},
		{"bad credentials", usecase.ErrInvalidCredentials, dto.LoginRequest{Email: "rita@clinic.test", Password: "x"}, http.StatusUnauthorized},
		{"disabled", usecase.ErrUserInactive, dto.LoginRequest{Email: "rita@clinic.test", Password: "x"}, http.StatusForbidden},
		{"store down", errors.New("redis down"), dto.LoginRequest{Email: "rita@clinic.test", Password: "x"}, http.StatusInternalServerError},
		{"invalid email", nil, dto.LoginRequest{Email: "rita", Password: "x"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&stubAuthUsecase{loginErr: tt.err}, validator.NewValidator(), newTestJWT())
			rec := postJSON(t, h.Login, tt.body)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestLogoutHandlerRevokesOwnRefreshToken(t *testing.T) {
	jwtService := newTestJWT()
	stub := &stubAuthUsecase{}
	h := NewAuthHandler(stub, validator.NewValidator(), jwtService)

	userID := uuid.New()
	refresh, refreshID, err := jwtService.GenerateRefreshToken(userID, "rita@clinic.test", 3)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", bytes.NewBufferString(`{"refresh_token":"`+refresh+`"}`))
	ctx := middleware.WithStaff(req.Context(), middleware.Staff{UserID: userID, RoleID: 3, TokenID: "access-id"})

	rec := httptest.NewRecorder()
	h.Logout(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{userID.String(), "access-id", refreshID}, stub.logoutArgs)

	rec = httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(map[string]HealthCheck{
		"database": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return nil },
	})
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h = NewHealthHandler(map[string]HealthCheck{
		"database": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	})
	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
