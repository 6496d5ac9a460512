package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthAuditLog records authentication attempts in the shared directory
type AuthAuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID       uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Email        string    `gorm:"type:varchar(255);index" json:"email"`
	Action       string    `gorm:"type:varchar(50);not null;index" json:"action"` // login, refresh, logout
	IPAddress    string    `gorm:"type:varchar(45)" json:"ip_address"`
	Status       string    `gorm:"type:varchar(20);index" json:"status"` // success, failure
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name
func (AuthAuditLog) TableName() string {
	return "auth_audit_logs"
}

// BeforeCreate hook
func (a *AuthAuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
