package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/std-1224/payper-tenant/internal/venue/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) ListVenues(ctx context.Context, tenantID snowflake.ID) ([]*domain.Venue, error) {
	var venues []*domain.Venue
	stmt := r.db.WithContext(ctx).Model(&domain.Venue{})
	if tenantID != 0 {
		stmt = stmt.Where("tenant_id = ?", tenantID)
	}
	err := stmt.Order("name ASC").Find(&venues).Error
	return venues, err
}

func (r *repo) FindVenue(ctx context.Context, id snowflake.ID) (*domain.Venue, error) {
	var venue domain.Venue
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&venue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrVenueNotFound
	}
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *repo) ListBars(ctx context.Context, venueID snowflake.ID) ([]*domain.Bar, error) {
	var bars []*domain.Bar
	err := r.db.WithContext(ctx).Where("venue_id = ?", venueID).Order("name ASC").Find(&bars).Error
	return bars, err
}

func (r *repo) ListQRCodes(ctx context.Context, venueID snowflake.ID) ([]*domain.QRCode, error) {
	var codes []*domain.QRCode
	err := r.db.WithContext(ctx).Where("venue_id = ?", venueID).Order("created_at ASC").Find(&codes).Error
	return codes, err
}

func (r *repo) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Order{})
	if filter.VenueID != 0 {
		stmt = stmt.Where("venue_id = ?", filter.VenueID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var orders []*domain.Order
	err := stmt.Order("created_at DESC").Limit(limit).Find(&orders).Error
	return orders, err
}

func (r *repo) ListStock(ctx context.Context, venueID snowflake.ID) ([]*domain.StockItem, error) {
	var items []*domain.StockItem
	err := r.db.WithContext(ctx).Where("venue_id = ?", venueID).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *repo) ListRecipes(ctx context.Context, venueID snowflake.ID) ([]*domain.Recipe, error) {
	var recipes []*domain.Recipe
	err := r.db.WithContext(ctx).Where("venue_id = ?", venueID).Order("name ASC").Find(&recipes).Error
	return recipes, err
}

func (r *repo) ListStaff(ctx context.Context, venueID snowflake.ID) ([]*domain.StaffMember, error) {
	var staff []*domain.StaffMember
	err := r.db.WithContext(ctx).Where("venue_id = ?", venueID).Order("name ASC").Find(&staff).Error
	return staff, err
}

func (r *repo) ListCashflow(ctx context.Context, venueID snowflake.ID, limit int) ([]*domain.CashflowEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []*domain.CashflowEntry
	err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *repo) ListAlerts(ctx context.Context, venueID *snowflake.ID, unresolvedOnly bool) ([]*domain.SystemAlert, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.SystemAlert{})
	if venueID != nil {
		stmt = stmt.Where("venue_id = ?", *venueID)
	}
	if unresolvedOnly {
		stmt = stmt.Where("is_resolved = ?", false)
	}

	var alerts []*domain.SystemAlert
	err := stmt.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *repo) FindAlert(ctx context.Context, id snowflake.ID) (*domain.SystemAlert, error) {
	var alert domain.SystemAlert
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAlertNotFound
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *repo) UpdateAlert(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.SystemAlert{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrAlertNotFound
	}
	return nil
}
