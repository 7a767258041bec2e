package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrVenueNotFound = errors.New("venue not found")
	ErrAlertNotFound = errors.New("alert not found")
)

// Detail aggregates one venue's operational state for the monitoring
// view.
type Detail struct {
	Venue    Venue           `json:"venue"`
	Bars     []*Bar          `json:"bars"`
	QRCodes  []*QRCode       `json:"qr_codes"`
	Orders   []*Order        `json:"orders"`
	Stock    []*StockItem    `json:"stock"`
	Recipes  []*Recipe       `json:"recipes"`
	Staff    []*StaffMember  `json:"staff"`
	Cashflow []*CashflowEntry `json:"cashflow"`
	Alerts   []*SystemAlert  `json:"alerts"`
}

// OrderFilter narrows the order listing.
type OrderFilter struct {
	VenueID snowflake.ID
	Status  string
	Limit   int
}

type Repository interface {
	ListVenues(ctx context.Context, tenantID snowflake.ID) ([]*Venue, error)
	FindVenue(ctx context.Context, id snowflake.ID) (*Venue, error)
	ListBars(ctx context.Context, venueID snowflake.ID) ([]*Bar, error)
	ListQRCodes(ctx context.Context, venueID snowflake.ID) ([]*QRCode, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, error)
	ListStock(ctx context.Context, venueID snowflake.ID) ([]*StockItem, error)
	ListRecipes(ctx context.Context, venueID snowflake.ID) ([]*Recipe, error)
	ListStaff(ctx context.Context, venueID snowflake.ID) ([]*StaffMember, error)
	ListCashflow(ctx context.Context, venueID snowflake.ID, limit int) ([]*CashflowEntry, error)
	ListAlerts(ctx context.Context, venueID *snowflake.ID, unresolvedOnly bool) ([]*SystemAlert, error)
	FindAlert(ctx context.Context, id snowflake.ID) (*SystemAlert, error)
	UpdateAlert(ctx context.Context, id snowflake.ID, fields map[string]any) error
}

type Service interface {
	ListVenues(ctx context.Context, tenantID snowflake.ID) ([]*Venue, error)
	GetDetail(ctx context.Context, venueID snowflake.ID) (*Detail, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, error)
	ListAlerts(ctx context.Context, venueID *snowflake.ID, unresolvedOnly bool) ([]*SystemAlert, error)
	ResolveAlert(ctx context.Context, alertID snowflake.ID) (*SystemAlert, error)
}
