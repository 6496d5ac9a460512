package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/auth"
	"github.com/physiohub/physiohub-server/internal/models"
	"github.com/physiohub/physiohub-server/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Slugs that collide with reserved subdomains or schemas
var reservedSlugs = map[string]bool{
	"www":    true,
	"api":    true,
	"admin":  true,
	"public": true,
}

var errInvalidSlug = apperrors.New("INVALID_SLUG", http.StatusBadRequest,
	"slug must be 3-63 lowercase letters, digits or hyphens")

// TenantService handles tenant registration and teardown
type TenantService struct {
	tenants     TenantStore
	users       UserStore
	provisioner SchemaProvisioner
}

// NewTenantService creates a new tenant service
func NewTenantService(tenants TenantStore, users UserStore, provisioner SchemaProvisioner) *TenantService {
	return &TenantService{
		tenants:     tenants,
		users:       users,
		provisioner: provisioner,
	}
}

// RegisterRequest is a new-tenant signup
type RegisterRequest struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Subdomain string `json:"subdomain,omitempty"`
	AdminName string `json:"admin_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Plan      string `json:"plan,omitempty"`
}

// RegisterResult is the outcome of a successful registration
type RegisterResult struct {
	Tenant *models.TenantInfo `json:"tenant"`
	User   *models.GlobalUser `json:"user"`
}

// Register creates the tenant directory row, provisions the tenant
// schema and creates the first admin user. A tenant row never outlives
// a failed provisioning: any error after the row is created rolls the
// registration back completely.
func (s *TenantService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if err := validateSlug(req.Slug); err != nil {
		return nil, err
	}
	if req.Subdomain != "" {
		if err := validateSlug(req.Subdomain); err != nil {
			return nil, err
		}
	}

	exists, err := s.tenants.ExistsBySlugOrSubdomain(ctx, req.Slug, req.Subdomain)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateSlug
	}

	tenant := &models.Tenant{
		Name:   req.Name,
		Slug:   req.Slug,
		Status: models.TenantStatusTrial,
		Plan:   parsePlan(req.Plan),
	}
	if req.Subdomain != "" {
		tenant.Subdomain = &req.Subdomain
	}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		// Two concurrent registrations can both pass the existence
		// check; the loser hits the unique index instead
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateSlug
		}
		return nil, err
	}

	schema := tenant.SchemaName()
	if err := s.provisioner.CreateTenantSchema(ctx, schema); err != nil {
		s.rollback(ctx, tenant, false)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSchemaProvisioningFailed, err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.rollback(ctx, tenant, true)
		return nil, err
	}

	admin := &models.GlobalUser{
		TenantID:     tenant.ID,
		Email:        req.Email,
		Name:         req.AdminName,
		PasswordHash: passwordHash,
		Role:         string(auth.RoleTenantAdmin),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		s.rollback(ctx, tenant, true)
		return nil, err
	}

	if err := s.provisioner.SeedAdminUser(ctx, schema, admin); err != nil {
		s.rollback(ctx, tenant, true)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSchemaProvisioningFailed, err)
	}

	log.Info().
		Str("tenant_id", tenant.ID.String()).
		Str("slug", tenant.Slug).
		Msg("Tenant registered")

	return &RegisterResult{Tenant: tenant.Info(), User: admin}, nil
}

// rollback undoes a partial registration
func (s *TenantService) rollback(ctx context.Context, tenant *models.Tenant, dropSchema bool) {
	if dropSchema {
		if err := s.provisioner.DropTenantSchema(ctx, tenant.SchemaName()); err != nil {
			log.Error().Err(err).Str("slug", tenant.Slug).Msg("Failed to drop schema during rollback")
		}
	}
	if err := s.tenants.Delete(ctx, tenant.ID); err != nil {
		log.Error().Err(err).Str("slug", tenant.Slug).Msg("Failed to delete tenant during rollback")
	}
}

// Drop destroys a tenant's schema and marks the tenant cancelled.
// The confirmation string must repeat the slug exactly; this is an
// operator action, not a casual API call.
func (s *TenantService) Drop(ctx context.Context, slug, confirm string) error {
	if confirm != slug {
		return apperrors.New("CONFIRMATION_REQUIRED", http.StatusBadRequest,
			"confirm must repeat the tenant slug")
	}

	tenant, err := s.tenants.GetBySlugOrSubdomain(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrTenantNotFound
		}
		return err
	}

	if err := s.provisioner.DropTenantSchema(ctx, tenant.SchemaName()); err != nil {
		return err
	}

	return s.tenants.UpdateStatus(ctx, tenant.ID, models.TenantStatusCancelled)
}

func validateSlug(slug string) error {
	if len(slug) < 3 || len(slug) > 63 || !slugPattern.MatchString(slug) || reservedSlugs[slug] {
		return errInvalidSlug
	}
	return nil
}

func parsePlan(plan string) models.TenantPlan {
	switch models.TenantPlan(plan) {
	case models.TenantPlanProfessional:
		return models.TenantPlanProfessional
	case models.TenantPlanEnterprise:
		return models.TenantPlanEnterprise
	default:
		return models.TenantPlanBasic
	}
}
