package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GlobalUser is an account in the shared directory. A user belongs to
// exactly one tenant; the same email may exist under different tenants
// as distinct accounts.
type GlobalUser struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_global_users_tenant_email" json:"tenant_id"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_global_users_tenant_email" json:"email"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash string     `gorm:"type:text;not null" json:"-"`
	Role         string     `gorm:"type:varchar(50);not null" json:"role"`
	HospitalID   *uuid.UUID `gorm:"type:uuid" json:"hospital_id,omitempty"`
	ServiceID    *uuid.UUID `gorm:"type:uuid" json:"service_id,omitempty"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (GlobalUser) TableName() string {
	return "global_users"
}

// BeforeCreate hook
func (u *GlobalUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserContext is the authenticated user attached to the request after
// token verification
type UserContext struct {
	UserID      uuid.UUID
	TenantID    uuid.UUID
	Role        string
	Permissions []string
	HospitalID  *uuid.UUID
	ServiceID   *uuid.UUID
}
