package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/converter"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/dto"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/repository"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/service"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is disabled")
	ErrRoleNotFound       = errors.New("role not found")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	// CreateStaff registers a staff account; dentists also get a profile row.
	CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	dentistRepo  repository.DentistRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	dentistRepo repository.DentistRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		dentistRepo:  dentistRepo,
		auditService: auditService,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
	}
}

func (u *authUsecase) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.UserResponse, error) {
	roleID, ok := entity.RoleIDByName(req.Role)
	if !ok {
		return nil, ErrRoleNotFound
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Email:     strings.ToLower(req.Email),
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		RoleID:    roleID,
		IsActive:  entity.BoolPtr(true),
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if roleID == entity.RoleIDDentist {
		profile := &entity.DentistProfile{
			UserID:         user.ID,
			LicenseNumber:  req.LicenseNumber,
			Specialization: req.Specialization,
			Biography:      req.Biography,
		}
		if err := u.dentistRepo.CreateProfile(ctx, tx, profile); err != nil {
			if isDuplicateKeyError(err, "license") {
				return nil, ErrLicenseNumberExists
			}
			u.log.Warnf("Failed to create dentist profile: %+v", err)
			return nil, err
		}
		user.DentistProfile = profile
	}

	response := converter.UserToResponse(user)
	if err := u.auditService.LogCreate(ctx, tx, actorID(ctx), entity.AuditActionStaffCreate, "user", user.ID.String(), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Staff account created: id=%s, role=%s", user.ID, req.Role)
	return response, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// Find user by email (read-only, no transaction needed)
	user, err := u.userRepo.FindByEmail(ctx, u.db, strings.ToLower(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	tokens, err := u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogEvent(ctx, u.db.WithContext(ctx), &user.ID, entity.AuditActionUserLogin, map[string]interface{}{
		"email": user.Email,
	}); err != nil {
		u.log.Warnf("Failed to audit login of %s: %+v", user.ID, err)
	}

	return tokens, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	if err := u.tokenStore.Revoke(ctx, userID, accessTokenID, refreshTokenID); err != nil {
		u.log.Warnf("Failed to revoke tokens: %+v", err)
		return err
	}

	if err := u.auditService.LogEvent(ctx, u.db.WithContext(ctx), &userID, entity.AuditActionUserLogout, nil); err != nil {
		u.log.Warnf("Failed to audit logout of %s: %+v", userID, err)
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	// Validate refresh token
	claims, err := u.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Refresh tokens are single use
	existed, err := u.tokenStore.ConsumeRefresh(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to consume refresh token: %+v", err)
		return nil, err
	}
	if !existed {
		return nil, ErrTokenRevoked
	}

	// Role or active flag may have changed since the token was issued
	user, err := u.userRepo.FindByID(ctx, u.db, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil || !user.Active() {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string, roleID int) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.StoreAccess(ctx, userID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.StoreRefresh(ctx, userID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
