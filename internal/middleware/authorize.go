package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/auth"
)

// RequirePermission rejects requests whose user lacks the permission.
// Must run after Authenticate.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				writeError(w, apperrors.ErrTokenMalformed.WithMessage("missing bearer token"))
				return
			}
			if !auth.HasPermission(user.Permissions, permission) {
				writeError(w, apperrors.ErrPermissionDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireHospitalAccess restricts hospital-scoped routes to the user's
// own hospital. Tenant and hospital admins can reach any hospital in
// their tenant; everyone else must carry a hospital assignment matching
// the hospitalID route parameter.
func RequireHospitalAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			writeError(w, apperrors.ErrTokenMalformed.WithMessage("missing bearer token"))
			return
		}

		switch auth.Role(user.Role) {
		case auth.RoleTenantAdmin, auth.RoleHospitalAdmin:
			next.ServeHTTP(w, r)
			return
		}

		hospitalID, err := uuid.Parse(chi.URLParam(r, "hospitalID"))
		if err != nil {
			writeError(w, apperrors.New("INVALID_HOSPITAL_ID", http.StatusBadRequest, "invalid hospital ID"))
			return
		}
		if user.HospitalID == nil || *user.HospitalID != hospitalID {
			writeError(w, apperrors.ErrPermissionDenied)
			return
		}
		next.ServeHTTP(w, r)
	})
}
