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

// UserRepository handles global user directory database operations
type UserRepository struct {
	db *database.Client
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Client) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new global user
func (r *UserRepository) Create(ctx context.Context, user *models.GlobalUser) error {
	if err := r.db.DB().WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GlobalUser, error) {
	var user models.GlobalUser
	if err := r.db.DB().WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmailAndTenant retrieves a user by email scoped to a tenant.
// Emails are only unique within a tenant, never globally.
func (r *UserRepository) GetByEmailAndTenant(ctx context.Context, email string, tenantID uuid.UUID) (*models.GlobalUser, error) {
	var user models.GlobalUser
	if err := r.db.DB().WithContext(ctx).
		Where("email = ? AND tenant_id = ?", email, tenantID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// TouchLastLogin updates the user's last login timestamp
func (r *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	if err := r.db.DB().WithContext(ctx).
		Model(&models.GlobalUser{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", time.Now().UTC()).Error; err != nil {
		return fmt.Errorf("failed to touch last login: %w", err)
	}
	return nil
}
