package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/models"
)

// TenantSource resolves the tenant for a request
type TenantSource interface {
	Resolve(req *http.Request) (*models.TenantInfo, error)
}

// ResolveTenant middleware identifies the tenant for every request and
// attaches it to the context. Requests with no resolvable, serviceable
// tenant are rejected before any handler runs.
func ResolveTenant(source TenantSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant, err := source.Resolve(r)
			if err != nil {
				log.Warn().Err(err).Str("host", r.Host).Str("path", r.URL.Path).Msg("Tenant resolution failed")
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), TenantKey, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResolveTenantLenient is ResolveTenant for routes that can also name
// the tenant in their request body (the auth endpoints). A request with
// no resolution candidate at all passes through without a tenant and
// the handler falls back to the body; a candidate that names an
// unknown or inactive tenant is still rejected here.
func ResolveTenantLenient(source TenantSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant, err := source.Resolve(r)
			if err != nil {
				if errors.Is(err, apperrors.ErrTenantNotIdentified) {
					next.ServeHTTP(w, r)
					return
				}
				log.Warn().Err(err).Str("host", r.Host).Str("path", r.URL.Path).Msg("Tenant resolution failed")
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), TenantKey, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
