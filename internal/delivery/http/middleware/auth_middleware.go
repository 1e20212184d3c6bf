package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/service"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/jwt"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/response"

	"github.com/google/uuid"
)

type staffKey struct{}

// Staff identifies the clinic user behind an authenticated request.
type Staff struct {
	UserID  uuid.UUID
	Email   string
	RoleID  int
	TokenID string
}

// WithStaff attaches the caller's identity to ctx.
func WithStaff(ctx context.Context, staff Staff) context.Context {
	return context.WithValue(ctx, staffKey{}, staff)
}

func StaffFromContext(ctx context.Context) (Staff, bool) {
	staff, ok := ctx.Value(staffKey{}).(Staff)
	return staff, ok
}

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	tokenStore service.TokenStore
}

func NewAuthMiddleware(jwtService *jwt.JWTService, tokenStore service.TokenStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Authenticate accepts only live access tokens: the JWT must verify and its id must
// still be in the token store, which logout and dentist deactivation clear.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, msg := bearerToken(r)
		if token == "" {
			response.Unauthorized(w, msg)
			return
		}

		claims, err := m.jwtService.ValidateAccessToken(token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		live, err := m.tokenStore.AccessValid(r.Context(), claims.UserID, claims.TokenID)
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !live {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := WithStaff(r.Context(), Staff{
			UserID:  claims.UserID,
			Email:   claims.Email,
			RoleID:  claims.RoleID,
			TokenID: claims.TokenID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "Authorization header is required"
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" || strings.Contains(token, " ") {
		return "", "Invalid authorization header format"
	}
	return token, ""
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	staff, ok := StaffFromContext(ctx)
	return staff.UserID, ok
}

func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	staff, ok := StaffFromContext(ctx)
	return staff.TokenID, ok && staff.TokenID != ""
}

func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	staff, ok := StaffFromContext(ctx)
	return staff.RoleID, ok
}
