// Package domain contains core types for tenant onboarding and management.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the lifecycle state of a tenant.
type Status string

const (
	StatusTrial     Status = "trial"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
	StatusFree      Status = "free"
)

// IsValid reports whether s is a known tenant status.
func (s Status) IsValid() bool {
	switch s {
	case StatusTrial, StatusActive, StatusSuspended, StatusCancelled, StatusFree:
		return true
	}
	return false
}

// UserRole is a role inside a tenant, distinct from console operator roles.
type UserRole string

const (
	UserRoleOwner   UserRole = "tenant_owner"
	UserRoleAdmin   UserRole = "tenant_admin"
	UserRoleOps     UserRole = "tenant_ops"
	UserRoleFinance UserRole = "tenant_finance"
	UserRoleViewer  UserRole = "tenant_viewer"
)

// IsValid reports whether r is a known tenant user role.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleOwner, UserRoleAdmin, UserRoleOps, UserRoleFinance, UserRoleViewer:
		return true
	}
	return false
}

// UserStatus is the lifecycle state of a tenant user.
type UserStatus string

const (
	UserStatusInvited  UserStatus = "invited"
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// IsValid reports whether s is a known tenant user status.
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusInvited, UserStatusActive, UserStatusDisabled:
		return true
	}
	return false
}

// Tenant is a merchant organization on the platform.
type Tenant struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	Name            string       `gorm:"column:name;type:text;not null" json:"name"`
	LegalName       *string      `gorm:"column:legal_name;type:text" json:"legal_name,omitempty"`
	Slug            string       `gorm:"column:slug;type:text;not null;uniqueIndex" json:"slug"`
	DefaultCurrency string       `gorm:"column:default_currency;type:text;not null" json:"default_currency"`
	Timezone        string       `gorm:"column:timezone;type:text;not null" json:"timezone"`
	Status          Status       `gorm:"column:status;type:text;not null" json:"status"`
	NotesInternal   *string      `gorm:"column:notes_internal;type:text" json:"notes_internal,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

// Contact is a person attached to a tenant. At most one contact per
// tenant is primary.
type Contact struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Name      string       `gorm:"column:name;type:text;not null" json:"name"`
	Email     string       `gorm:"column:email;type:text;not null" json:"email"`
	Phone     *string      `gorm:"column:phone;type:text" json:"phone,omitempty"`
	RoleLabel *string      `gorm:"column:role_label;type:text" json:"role_label,omitempty"`
	IsPrimary bool         `gorm:"column:is_primary;not null;default:false" json:"is_primary"`
	Notes     *string      `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Contact) TableName() string { return "tenant_contacts" }

// ModuleActivation enables a registry module for a tenant.
type ModuleActivation struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID      `gorm:"column:tenant_id;not null;uniqueIndex:idx_tenant_app" json:"tenant_id"`
	AppID       snowflake.ID      `gorm:"column:app_id;not null;uniqueIndex:idx_tenant_app" json:"app_id"`
	Enabled     bool              `gorm:"column:enabled;not null;default:true" json:"enabled"`
	ActivatedAt time.Time         `gorm:"column:activated_at;not null" json:"activated_at"`
	CreatedBy   *string           `gorm:"column:created_by;type:text" json:"created_by,omitempty"`
	Config      datatypes.JSONMap `gorm:"column:config;type:jsonb" json:"config,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ModuleActivation) TableName() string { return "tenant_modules" }

// User is a tenant-side account, created as "invited" during onboarding.
type User struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"column:tenant_id;not null;uniqueIndex:idx_tenant_email" json:"tenant_id"`
	Email     string       `gorm:"column:email;type:text;not null;uniqueIndex:idx_tenant_email" json:"email"`
	Role      UserRole     `gorm:"column:role;type:text;not null" json:"role"`
	Status    UserStatus   `gorm:"column:status;type:text;not null" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "tenant_users" }

// Location is a physical site operated by a tenant.
type Location struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Name      string       `gorm:"column:name;type:text;not null" json:"name"`
	Address   *string      `gorm:"column:address;type:text" json:"address,omitempty"`
	City      *string      `gorm:"column:city;type:text" json:"city,omitempty"`
	Country   *string      `gorm:"column:country;type:text" json:"country,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Location) TableName() string { return "tenant_locations" }
