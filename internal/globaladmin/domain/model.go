// Package domain contains types for console operator roles.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role is an operator role on the back-office console.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleSupportAdmin Role = "support_admin"
	RoleSalesAdmin   Role = "sales_admin"
	RoleReadOnly     Role = "read_only"
)

// IsValid reports whether r is a known operator role.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleSupportAdmin, RoleSalesAdmin, RoleReadOnly:
		return true
	}
	return false
}

// GlobalAdmin grants an operator a console-wide role. The record is
// created once, either by an existing super admin or by the first-operator
// bootstrap, and is never edited by the bootstrap path afterwards.
type GlobalAdmin struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;uniqueIndex"`
	Role      Role         `gorm:"column:role;type:text;not null"`
	IsActive  bool         `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (GlobalAdmin) TableName() string { return "global_admins" }
