package middleware

import (
	"net/http"

	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/service"
	"neuropharm-backend/pkg/response"
)

type RoleMiddleware struct {
	policy service.AccessPolicy
}

func NewRoleMiddleware(policy service.AccessPolicy) *RoleMiddleware {
	return &RoleMiddleware{policy: policy}
}

// RequireRole creates a middleware that checks if the user has any of the required roles.
// The user is read from context (set by AuthMiddleware).
func (m *RoleMiddleware) RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "User information not found")
				return
			}

			if decision := m.policy.RequireRole(user, roles...); !decision.Allowed {
				response.Forbidden(w, decision.Reason)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func (m *RoleMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(entity.RoleAdmin)(next)
}

// RequireDoctor is a convenience middleware for doctor-only endpoints
func (m *RoleMiddleware) RequireDoctor(next http.Handler) http.Handler {
	return m.RequireRole(entity.RoleDoctor)(next)
}

// RequirePatient is a convenience middleware for patient-only endpoints
func (m *RoleMiddleware) RequirePatient(next http.Handler) http.Handler {
	return m.RequireRole(entity.RolePatient)(next)
}
