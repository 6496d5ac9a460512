package models

import (
	"time"

	"github.com/google/uuid"
)

// Hospital lives in the tenant's private schema, never in public.
// Queries against it must run on a connection whose search_path has
// been switched to the tenant schema.
type Hospital struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClientID  *uuid.UUID `gorm:"type:uuid" json:"client_id,omitempty"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Address   string     `gorm:"type:text" json:"address,omitempty"`
	Phone     string     `gorm:"type:varchar(50)" json:"phone,omitempty"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName overrides the table name
func (Hospital) TableName() string {
	return "hospitals"
}
