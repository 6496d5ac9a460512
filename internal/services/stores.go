package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/physiohub/physiohub-server/internal/models"
)

// Store interfaces cover the slice of the repositories the services
// need; the repository types satisfy them.

// TenantStore accesses the tenant directory
type TenantStore interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySlugOrSubdomain(ctx context.Context, key string) (*models.Tenant, error)
	ExistsBySlugOrSubdomain(ctx context.Context, slug, subdomain string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.TenantStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserStore accesses the global user directory
type UserStore interface {
	Create(ctx context.Context, user *models.GlobalUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.GlobalUser, error)
	GetByEmailAndTenant(ctx context.Context, email string, tenantID uuid.UUID) (*models.GlobalUser, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// AuditStore records authentication attempts
type AuditStore interface {
	Create(ctx context.Context, entry *models.AuthAuditLog) error
}

// SchemaProvisioner creates and destroys tenant schemas
type SchemaProvisioner interface {
	CreateTenantSchema(ctx context.Context, schemaName string) error
	DropTenantSchema(ctx context.Context, schemaName string) error
	SeedAdminUser(ctx context.Context, schemaName string, user *models.GlobalUser) error
}
