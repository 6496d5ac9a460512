package tenant

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/cache"
	"github.com/physiohub/physiohub-server/internal/metrics"
	"github.com/physiohub/physiohub-server/internal/models"
	"github.com/physiohub/physiohub-server/internal/repository"
)

// Identification sources, in priority order
const (
	SourceSubdomain = "subdomain"
	SourceHeader    = "header"
	SourceQuery     = "query"
	SourcePath      = "path"
)

// TenantSlugHeader is the custom header carrying the tenant slug
const TenantSlugHeader = "X-Tenant-Slug"

// activityThrottle limits how often the activity timestamp is written
// per tenant
const activityThrottle = time.Minute

// Hostnames whose first label is never a tenant subdomain
var reservedSubdomains = map[string]bool{
	"www": true,
	"api": true,
}

// Directory looks tenants up in the shared directory
type Directory interface {
	GetBySlugOrSubdomain(ctx context.Context, key string) (*models.Tenant, error)
	TouchActivity(ctx context.Context, id uuid.UUID) error
}

// Resolver maps an inbound request to a TenantInfo. Identification
// sources are checked in strict priority order: Host subdomain, the
// X-Tenant-Slug header, the tenant query parameter, then the tenantSlug
// route parameter. The first candidate found wins; a candidate that
// does not resolve is an error, not a fall-through.
type Resolver struct {
	directory Directory
	cache     cache.Cache
}

// NewResolver creates a new tenant resolver
func NewResolver(directory Directory, c cache.Cache) *Resolver {
	return &Resolver{directory: directory, cache: c}
}

// Resolve identifies the tenant for a request. Fails closed: no
// identifiable tenant, an unknown tenant, or a suspended/cancelled
// tenant all reject the request.
func (r *Resolver) Resolve(req *http.Request) (*models.TenantInfo, error) {
	candidate, source := identify(req)
	if candidate == "" {
		metrics.TenantResolutions.WithLabelValues("none", "unidentified").Inc()
		return nil, apperrors.ErrTenantNotIdentified
	}

	tenant, err := r.directory.GetBySlugOrSubdomain(req.Context(), candidate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.TenantResolutions.WithLabelValues(source, "not_found").Inc()
			return nil, apperrors.ErrTenantNotFound
		}
		metrics.TenantResolutions.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("failed to resolve tenant %q: %w", candidate, err)
	}

	if !tenant.IsServiceable() {
		metrics.TenantResolutions.WithLabelValues(source, "inactive").Inc()
		return nil, apperrors.ErrTenantInactive.WithMessage(
			fmt.Sprintf("tenant is %s", tenant.Status))
	}

	metrics.TenantResolutions.WithLabelValues(source, "ok").Inc()

	// Best effort; must never block or fail the request
	go r.touchActivity(tenant.ID)

	return tenant.Info(), nil
}

// identify extracts the first tenant candidate from the request.
// Malformed hosts yield no subdomain candidate and fall through to the
// next source.
func identify(req *http.Request) (candidate, source string) {
	if sub := subdomainFromHost(req.Host); sub != "" {
		return sub, SourceSubdomain
	}
	if slug := strings.TrimSpace(req.Header.Get(TenantSlugHeader)); slug != "" {
		return slug, SourceHeader
	}
	if slug := strings.TrimSpace(req.URL.Query().Get("tenant")); slug != "" {
		return slug, SourceQuery
	}
	if slug := chi.URLParam(req, "tenantSlug"); slug != "" {
		return slug, SourcePath
	}
	return "", ""
}

// subdomainFromHost returns the first host label when it looks like a
// tenant subdomain: at least three labels, none empty, first label not
// reserved. Anything else returns "".
func subdomainFromHost(host string) string {
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	labels := strings.Split(host, ".")
	if len(labels) < 3 {
		return ""
	}
	for _, label := range labels {
		if label == "" {
			return ""
		}
	}
	if reservedSubdomains[labels[0]] {
		return ""
	}
	return labels[0]
}

// touchActivity updates lastActivityAt, throttled to one write per
// tenant per minute. Runs detached from the request; failures are
// logged and swallowed.
func (r *Resolver) touchActivity(tenantID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := cache.ActivityKey(tenantID.String())
	if seen, err := r.cache.Exists(ctx, key); err == nil && seen {
		return
	}
	if err := r.cache.Set(ctx, key, []byte("1"), activityThrottle); err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("Failed to set activity throttle key")
	}

	if err := r.directory.TouchActivity(ctx, tenantID); err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("Failed to update tenant activity")
	}
}
