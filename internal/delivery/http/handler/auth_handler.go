package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/http/middleware"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/usecase"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/jwt"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/response"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
	jwtService  *jwt.JWTService
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator, jwtService *jwt.JWTService) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		jwtService:  jwtService,
	}
}

// Login handles staff login
// @Summary Login
// @Description Login with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		writeAuthError(w, err, "Failed to login")
		return
	}

	response.Success(w, http.StatusOK, "Login successful", tokens)
}

// Logout handles user logout
// @Summary Logout user
// @Description Logout and revoke tokens
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	staff, ok := middleware.StaffFromContext(r.Context())
	if !ok || staff.TokenID == "" {
		response.Unauthorized(w, "Invalid token")
		return
	}

	// The body is optional; a refresh token in it is revoked only when it belongs to the caller.
	var req dto.LogoutRequest
	if r.Body != nil {
		_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req)
	}

	refreshTokenID := ""
	if req.RefreshToken != "" {
		if claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken); err == nil && claims.UserID == staff.UserID {
			refreshTokenID = claims.TokenID
		}
	}

	if err := h.authUsecase.Logout(r.Context(), staff.UserID, staff.TokenID, refreshTokenID); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Get new access token using refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		writeAuthError(w, err, "Failed to refresh token")
		return
	}

	response.Success(w, http.StatusOK, "Token refreshed successfully", tokens)
}

// GetCurrentUser handles getting current user info
// @Summary Get current user
// @Description Get authenticated user information
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), userID)
	if err != nil {
		writeAuthError(w, err, "Failed to get user info")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

// CreateStaff registers a staff account
// @Summary Create staff account
// @Description Admin creates an admin, dentist or receptionist account
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateStaffRequest true "Create Staff Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/staff [post]
func (h *AuthHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.authUsecase.CreateStaff(r.Context(), &req)
	if err != nil {
		writeAuthError(w, err, "Failed to create staff account")
		return
	}

	response.Success(w, http.StatusCreated, "Staff account created successfully", user)
}

// authErrorStatus maps auth and staff sentinel errors onto HTTP status codes.
var authErrorStatus = []struct {
	err    error
	status int
}{
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
	{usecase.ErrInvalidToken, http.StatusUnauthorized},
	{usecase.ErrTokenRevoked, http.StatusUnauthorized},
	{usecase.ErrUserInactive, http.StatusForbidden},
	{usecase.ErrUserNotFound, http.StatusNotFound},
	{usecase.ErrEmailAlreadyExists, http.StatusConflict},
	{usecase.ErrLicenseNumberExists, http.StatusConflict},
	{usecase.ErrRoleNotFound, http.StatusBadRequest},
}

func writeAuthError(w http.ResponseWriter, err error, fallback string) {
	for _, known := range authErrorStatus {
		if errors.Is(err, known.err) {
			response.Error(w, known.status, capitalize(known.err.Error()), nil)
			return
		}
	}
	response.InternalServerError(w, fallback)
}

func capitalize(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
