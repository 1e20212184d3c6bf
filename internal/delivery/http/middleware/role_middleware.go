package middleware

import (
	"net/http"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/domain/entity"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/response"
)

// RequireRole admits authenticated staff whose role is one of roleIDs.
// It must run after AuthMiddleware.Authenticate.
func RequireRole(roleIDs ...int) func(http.Handler) http.Handler {
	allowed := make(map[int]bool, len(roleIDs))
	for _, id := range roleIDs {
		allowed[id] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			staff, ok := StaffFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}
			if !allowed[staff.RoleID] {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var (
	// RequireAdmin guards clinic administration.
	RequireAdmin = RequireRole(entity.RoleIDAdmin)
	// RequireStaff admits every clinic role.
	RequireStaff = RequireRole(entity.RoleIDAdmin, entity.RoleIDDentist, entity.RoleIDReceptionist)
	// RequireFrontDesk guards patient records: admins and receptionists.
	RequireFrontDesk = RequireRole(entity.RoleIDAdmin, entity.RoleIDReceptionist)
)
