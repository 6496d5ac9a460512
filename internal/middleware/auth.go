package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/auth"
	"github.com/physiohub/physiohub-server/internal/models"
)

// Authenticate middleware verifies the Bearer token against the
// resolved tenant. The token's audience must be the tenant's slug and
// its tenant_id claim must match the resolved tenant's ID; a valid
// token from any other tenant is rejected as cross-tenant. Must run
// after ResolveTenant.
func Authenticate(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant, ok := GetTenant(r.Context())
			if !ok {
				writeError(w, apperrors.ErrTenantNotIdentified)
				return
			}

			token := bearerToken(r)
			if token == "" {
				writeError(w, apperrors.ErrTokenMalformed.WithMessage("missing bearer token"))
				return
			}

			claims, err := tokens.VerifyAccessToken(token, tenant.Slug)
			if err != nil {
				writeError(w, err)
				return
			}
			if claims.TenantID != tenant.ID {
				writeError(w, apperrors.ErrCrossTenantToken)
				return
			}

			user := &models.UserContext{
				UserID:      claims.UserID,
				TenantID:    claims.TenantID,
				Role:        claims.Role,
				Permissions: claims.Permissions,
				HospitalID:  claims.HospitalID,
				ServiceID:   claims.ServiceID,
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
