// Package domain contains types for the platform module registry.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// AppModule is a platform capability a tenant can enable. Core modules
// are pre-selected during onboarding; optional ones are opt-in.
type AppModule struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Key         string       `gorm:"column:key;type:text;not null;uniqueIndex"`
	Name        string       `gorm:"column:name;type:text;not null"`
	Description string       `gorm:"column:description;type:text"`
	IsCore      bool         `gorm:"column:is_core;not null;default:false"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (AppModule) TableName() string { return "apps_registry" }
