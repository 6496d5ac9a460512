package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/physiohub/physiohub-server/internal/database"
	"github.com/physiohub/physiohub-server/internal/metrics"
	"github.com/physiohub/physiohub-server/internal/models"
)

// Provisioner creates and drops per-tenant PostgreSQL schemas
type Provisioner struct {
	db *database.Client
}

// NewProvisioner creates a new schema provisioner
func NewProvisioner(db *database.Client) *Provisioner {
	return &Provisioner{db: db}
}

// CreateTenantSchema creates the schema and its full table set. All DDL
// is idempotent and runs in a single transaction, so a failed run
// leaves no half-created schema content behind; callers must treat any
// error as tenant-not-ready.
func (p *Provisioner) CreateTenantSchema(ctx context.Context, schemaName string) error {
	started := time.Now()

	quoted, err := database.QuoteSchemaName(schemaName)
	if err != nil {
		return err
	}

	if err := p.db.DB().WithContext(ctx).
		Exec("CREATE SCHEMA IF NOT EXISTS " + quoted).Error; err != nil {
		metrics.SchemaProvisionings.WithLabelValues("failure").Inc()
		return fmt.Errorf("failed to create schema %s: %w", schemaName, err)
	}

	err = p.db.TenantTransaction(ctx, schemaName, func(tx *gorm.DB) error {
		for _, stmt := range tenantDDL {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to execute DDL: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		metrics.SchemaProvisionings.WithLabelValues("failure").Inc()
		return fmt.Errorf("failed to provision schema %s: %w", schemaName, err)
	}

	if err := p.verifySchema(ctx, schemaName); err != nil {
		metrics.SchemaProvisionings.WithLabelValues("failure").Inc()
		return err
	}

	metrics.SchemaProvisionings.WithLabelValues("success").Inc()
	metrics.SchemaProvisioningDuration.Observe(time.Since(started).Seconds())

	log.Info().
		Str("schema", schemaName).
		Dur("took", time.Since(started)).
		Msg("Tenant schema provisioned")
	return nil
}

// verifySchema confirms every expected table exists before the tenant
// is marked ready
func (p *Provisioner) verifySchema(ctx context.Context, schemaName string) error {
	var count int64
	err := p.db.DB().WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM information_schema.tables
		     WHERE table_schema = ? AND table_name IN ?`, schemaName, tenantTables).
		Scan(&count).Error
	if err != nil {
		return fmt.Errorf("failed to verify schema %s: %w", schemaName, err)
	}
	if count != int64(len(tenantTables)) {
		return fmt.Errorf("schema %s incomplete: %d of %d tables present",
			schemaName, count, len(tenantTables))
	}
	return nil
}

// SeedAdminUser mirrors the first admin account into the tenant
// schema's staff table
func (p *Provisioner) SeedAdminUser(ctx context.Context, schemaName string, user *models.GlobalUser) error {
	return p.db.WithTenant(ctx, schemaName, func(conn *gorm.DB) error {
		err := conn.Exec(
			`INSERT INTO users (id, email, name, role) VALUES (?, ?, ?, ?)
			 ON CONFLICT (email) DO NOTHING`,
			user.ID, user.Email, user.Name, user.Role,
		).Error
		if err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		return nil
	})
}

// DropTenantSchema destroys the schema and all tenant data. Destructive
// and unrecoverable; every exposed interface must demand explicit
// operator confirmation before calling this.
func (p *Provisioner) DropTenantSchema(ctx context.Context, schemaName string) error {
	quoted, err := database.QuoteSchemaName(schemaName)
	if err != nil {
		return err
	}

	if err := p.db.DB().WithContext(ctx).
		Exec("DROP SCHEMA IF EXISTS " + quoted + " CASCADE").Error; err != nil {
		return fmt.Errorf("failed to drop schema %s: %w", schemaName, err)
	}

	log.Warn().Str("schema", schemaName).Msg("Tenant schema dropped")
	return nil
}
