package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/physiohub/physiohub-server/internal/database"
	"github.com/physiohub/physiohub-server/internal/models"
)

// AuditRepository handles authentication audit log database operations
type AuditRepository struct {
	db *database.Client
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.Client) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create creates a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuthAuditLog) error {
	if err := r.db.DB().WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// GetByTenantID retrieves audit logs for a tenant
func (r *AuditRepository) GetByTenantID(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.AuthAuditLog, error) {
	var logs []models.AuthAuditLog
	query := r.db.DB().WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return logs, nil
}
