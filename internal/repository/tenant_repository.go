package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/physiohub/physiohub-server/internal/database"
	"github.com/physiohub/physiohub-server/internal/models"
)

// ErrNotFound is returned when a directory row does not exist
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint
var ErrDuplicate = errors.New("duplicate record")

// TenantRepository handles tenant directory database operations
type TenantRepository struct {
	db *database.Client
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *database.Client) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create creates a new tenant directory row
func (r *TenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	if err := r.db.DB().WithContext(ctx).Create(tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// GetByID retrieves a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.DB().WithContext(ctx).Where("id = ?", id).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}

// GetBySlugOrSubdomain retrieves a tenant whose slug or subdomain
// matches the given key
func (r *TenantRepository) GetBySlugOrSubdomain(ctx context.Context, key string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.DB().WithContext(ctx).
		Where("slug = ? OR subdomain = ?", key, key).
		First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}

// ExistsBySlugOrSubdomain checks whether a non-deleted tenant already
// claims the slug or subdomain
func (r *TenantRepository) ExistsBySlugOrSubdomain(ctx context.Context, slug, subdomain string) (bool, error) {
	var count int64
	query := r.db.DB().WithContext(ctx).Model(&models.Tenant{}).Where("slug = ?", slug)
	if subdomain != "" {
		query = query.Or("subdomain = ?", subdomain)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check tenant existence: %w", err)
	}
	return count > 0, nil
}

// TouchActivity updates the tenant's last activity timestamp
func (r *TenantRepository) TouchActivity(ctx context.Context, id uuid.UUID) error {
	if err := r.db.DB().WithContext(ctx).
		Model(&models.Tenant{}).
		Where("id = ?", id).
		UpdateColumn("last_activity_at", time.Now().UTC()).Error; err != nil {
		return fmt.Errorf("failed to touch tenant activity: %w", err)
	}
	return nil
}

// UpdateStatus transitions a tenant's status (billing events)
func (r *TenantRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TenantStatus) error {
	if err := r.db.DB().WithContext(ctx).
		Model(&models.Tenant{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update tenant status: %w", err)
	}
	return nil
}

// Delete removes a tenant directory row. Used to roll back registration
// when schema provisioning fails, so hard delete.
func (r *TenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.DB().WithContext(ctx).
		Unscoped().
		Delete(&models.Tenant{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return nil
}
