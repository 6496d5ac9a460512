package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/physiohub/physiohub-server/internal/database"
	"github.com/physiohub/physiohub-server/internal/models"
)

// HospitalRepository reads hospitals from a tenant's private schema.
// Every method takes the tenant schema explicitly; there is no way to
// query hospitals without naming the schema first.
type HospitalRepository struct {
	db *database.Client
}

// NewHospitalRepository creates a new hospital repository
func NewHospitalRepository(db *database.Client) *HospitalRepository {
	return &HospitalRepository{db: db}
}

// List returns the tenant's hospitals
func (r *HospitalRepository) List(ctx context.Context, schema string) ([]models.Hospital, error) {
	var hospitals []models.Hospital
	err := r.db.WithTenant(ctx, schema, func(conn *gorm.DB) error {
		return conn.Order("name").Find(&hospitals).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}

// GetByID returns a single hospital from the tenant's schema
func (r *HospitalRepository) GetByID(ctx context.Context, schema string, id uuid.UUID) (*models.Hospital, error) {
	var hospital models.Hospital
	err := r.db.WithTenant(ctx, schema, func(conn *gorm.DB) error {
		return conn.First(&hospital, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &hospital, nil
}

// Create inserts a hospital into the tenant's schema
func (r *HospitalRepository) Create(ctx context.Context, schema string, hospital *models.Hospital) error {
	err := r.db.WithTenant(ctx, schema, func(conn *gorm.DB) error {
		return conn.Create(hospital).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}
