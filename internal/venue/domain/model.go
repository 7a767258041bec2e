// Package domain contains read models for venue monitoring.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Venue is a tenant site under live monitoring.
type Venue struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Name      string       `gorm:"column:name;type:text;not null" json:"name"`
	Address   *string      `gorm:"column:address;type:text" json:"address,omitempty"`
	IsActive  bool         `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Venue) TableName() string { return "venues" }

// Bar is a service point inside a venue.
type Bar struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	VenueID   snowflake.ID `gorm:"column:venue_id;not null;index" json:"venue_id"`
	Name      string       `gorm:"column:name;type:text;not null" json:"name"`
	IsOpen    bool         `gorm:"column:is_open;not null;default:false" json:"is_open"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Bar) TableName() string { return "venue_bars" }

// QRCode points customers at a bar's ordering flow.
type QRCode struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	VenueID   snowflake.ID `gorm:"column:venue_id;not null;index" json:"venue_id"`
	BarID     *snowflake.ID `gorm:"column:bar_id;index" json:"bar_id,omitempty"`
	Code      string       `gorm:"column:code;type:text;not null;uniqueIndex" json:"code"`
	Label     *string      `gorm:"column:label;type:text" json:"label,omitempty"`
	IsActive  bool         `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (QRCode) TableName() string { return "qr_codes" }

// Order is a customer order observed at a venue.
type Order struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	VenueID     snowflake.ID      `gorm:"column:venue_id;not null;index" json:"venue_id"`
	BarID       *snowflake.ID     `gorm:"column:bar_id;index" json:"bar_id,omitempty"`
	Status      string            `gorm:"column:status;type:text;not null" json:"status"`
	TotalAmount int64             `gorm:"column:total_amount;not null" json:"total_amount"`
	Currency    string            `gorm:"column:currency;type:text;not null" json:"currency"`
	Items       datatypes.JSONMap `gorm:"column:items;type:jsonb" json:"items,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (Order) TableName() string { return "venue_orders" }

// CashflowEntry is one cash movement at a venue.
type CashflowEntry struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	VenueID   snowflake.ID `gorm:"column:venue_id;not null;index" json:"venue_id"`
	Kind      string       `gorm:"column:kind;type:text;not null" json:"kind"`
	Amount    int64        `gorm:"column:amount;not null" json:"amount"`
	Currency  string       `gorm:"column:currency;type:text;not null" json:"currency"`
	Note      *string      `gorm:"column:note;type:text" json:"note,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (CashflowEntry) TableName() string { return "venue_cashflow" }

// StockItem is an inventory line at a venue.
type StockItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	VenueID   snowflake.ID `gorm:"column:venue_id;not null;index" json:"venue_id"`
	Name      string       `gorm:"column:name;type:text;not null" json:"name"`
	Unit      string       `gorm:"column:unit;type:text;not null" json:"unit"`
	Quantity  float64      `gorm:"column:quantity;not null" json:"quantity"`
	MinLevel  float64      `gorm:"column:min_level;not null;default:0" json:"min_level"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (StockItem) TableName() string { return "stock_items" }

// Recipe maps a sellable product to stock consumption.
type Recipe struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	VenueID     snowflake.ID      `gorm:"column:venue_id;not null;index" json:"venue_id"`
	Name        string            `gorm:"column:name;type:text;not null" json:"name"`
	Ingredients datatypes.JSONMap `gorm:"column:ingredients;type:jsonb" json:"ingredients,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Recipe) TableName() string { return "recipes" }

// StaffMember is a person working at a venue.
type StaffMember struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	VenueID   snowflake.ID `gorm:"column:venue_id;not null;index" json:"venue_id"`
	Name      string       `gorm:"column:name;type:text;not null" json:"name"`
	Role      string       `gorm:"column:role;type:text;not null" json:"role"`
	IsActive  bool         `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (StaffMember) TableName() string { return "staff" }

// SystemAlert is an operational alert raised for a venue.
type SystemAlert struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	VenueID    *snowflake.ID `gorm:"column:venue_id;index" json:"venue_id,omitempty"`
	Severity   string       `gorm:"column:severity;type:text;not null" json:"severity"`
	Message    string       `gorm:"column:message;type:text;not null" json:"message"`
	IsResolved bool         `gorm:"column:is_resolved;not null;default:false" json:"is_resolved"`
	ResolvedAt *time.Time   `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	ResolvedBy *string      `gorm:"column:resolved_by;type:text" json:"resolved_by,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (SystemAlert) TableName() string { return "system_alerts" }
