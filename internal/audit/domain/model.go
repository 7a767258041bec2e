// Package domain contains types for the tenant audit trail.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AuditLog records one state-changing action on a tenant or related entity.
type AuditLog struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	Action      string            `gorm:"column:action;type:text;not null;index" json:"action"`
	EntityType  string            `gorm:"column:entity_type;type:text;not null;index" json:"entity_type"`
	EntityID    *string           `gorm:"column:entity_id;type:text;index" json:"entity_id,omitempty"`
	ActorUserID *string           `gorm:"column:actor_user_id;type:text" json:"actor_user_id,omitempty"`
	ActorRole   *string           `gorm:"column:actor_role;type:text" json:"actor_role,omitempty"`
	BeforeData  datatypes.JSONMap `gorm:"column:before_data;type:jsonb" json:"before_data,omitempty"`
	AfterData   datatypes.JSONMap `gorm:"column:after_data;type:jsonb" json:"after_data,omitempty"`
	IPAddress   *string           `gorm:"column:ip_address;type:text" json:"ip_address,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

// AuditCursor is the decoded keyset position for audit pagination.
type AuditCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

// ListFilter narrows an audit listing.
type ListFilter struct {
	Action     string
	EntityType string
	EntityID   string
	ActorID    string
	StartAt    *time.Time
	EndAt      *time.Time
	Cursor     *AuditCursor
	Limit      int
}
