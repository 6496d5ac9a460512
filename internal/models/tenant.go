package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantStatus represents the lifecycle state of a tenant
type TenantStatus string

const (
	TenantStatusTrial     TenantStatus = "trial"
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusCancelled TenantStatus = "cancelled"
)

// TenantPlan represents a tenant's subscription plan
type TenantPlan string

const (
	TenantPlanBasic        TenantPlan = "basic"
	TenantPlanProfessional TenantPlan = "professional"
	TenantPlanEnterprise   TenantPlan = "enterprise"
)

// SchemaPrefix is prepended to the sanitized tenant ID to form the
// tenant's PostgreSQL schema name
const SchemaPrefix = "tenant_"

// Tenant represents a customer organization (hospital network) in the
// shared directory. Each tenant's clinical data lives in its own
// PostgreSQL schema. Subdomain is optional and nil when absent, so the
// unique index only constrains tenants that actually claim one.
type Tenant struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string       `gorm:"type:varchar(255);not null" json:"name"`
	Slug           string       `gorm:"type:varchar(63);not null;uniqueIndex" json:"slug"`
	Subdomain      *string      `gorm:"type:varchar(63);uniqueIndex" json:"subdomain,omitempty"`
	Status         TenantStatus `gorm:"type:varchar(20);not null;default:'trial'" json:"status"`
	Plan           TenantPlan   `gorm:"type:varchar(20);not null;default:'basic'" json:"plan"`
	LastActivityAt *time.Time   `json:"last_activity_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Tenant) TableName() string {
	return "tenants"
}

// BeforeCreate hook
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsServiceable reports whether requests for this tenant may be served.
// Suspended and cancelled tenants are rejected at resolution time.
func (t *Tenant) IsServiceable() bool {
	return t.Status == TenantStatusTrial || t.Status == TenantStatusActive
}

// SchemaName derives the tenant's schema name from its ID. The mapping
// is deterministic so the schema never needs to be stored separately.
func (t *Tenant) SchemaName() string {
	return SchemaPrefix + strings.ReplaceAll(t.ID.String(), "-", "_")
}

// TenantInfo is the request-scoped view of a tenant produced by the
// resolver. It is recomputed on every request and never cached, since
// status can change between requests.
type TenantInfo struct {
	ID     uuid.UUID    `json:"id"`
	Name   string       `json:"name"`
	Slug   string       `json:"slug"`
	Schema string       `json:"schema"`
	Status TenantStatus `json:"status"`
	Plan   TenantPlan   `json:"plan"`
}

// Info builds the request-scoped TenantInfo for this tenant
func (t *Tenant) Info() *TenantInfo {
	return &TenantInfo{
		ID:     t.ID,
		Name:   t.Name,
		Slug:   t.Slug,
		Schema: t.SchemaName(),
		Status: t.Status,
		Plan:   t.Plan,
	}
}
