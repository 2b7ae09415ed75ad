package middleware

import (
	"net/http"
	"slices"

	"hospital-booking/internal/domain/entity"
	"hospital-booking/pkg/response"
)

// RequireRole lets a request through only when the role claim placed in the
// context by Authenticate is one of roleIDs. A missing claim means the route
// was mounted without Authenticate and is answered as unauthenticated.
func RequireRole(denied string, roleIDs ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Missing role claim")
				return
			}
			if !slices.Contains(roleIDs, roleID) {
				response.Forbidden(w, denied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards the audit trail.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole("Audit logs are restricted to administrators", entity.RoleIDAdmin)(next)
}

// RequirePatient guards the caller's own appointments and payments.
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole("Appointments and payments are only available to patients", entity.RoleIDPatient)(next)
}
