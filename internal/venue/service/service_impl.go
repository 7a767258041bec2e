package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/std-1224/payper-tenant/internal/audit/domain"
	"github.com/std-1224/payper-tenant/internal/auditcontext"
	"github.com/std-1224/payper-tenant/internal/venue/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const actionAlertResolved = "ALERT_RESOLVED"

type Params struct {
	fx.In

	Log   *zap.Logger
	Repo  domain.Repository
	Audit auditdomain.Service
}

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	audit auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &service{
		log:   p.Log.Named("venue.service"),
		repo:  p.Repo,
		audit: p.Audit,
	}
}

func (s *service) ListVenues(ctx context.Context, tenantID snowflake.ID) ([]*domain.Venue, error) {
	return s.repo.ListVenues(ctx, tenantID)
}

func (s *service) GetDetail(ctx context.Context, venueID snowflake.ID) (*domain.Detail, error) {
	venue, err := s.repo.FindVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	bars, err := s.repo.ListBars(ctx, venueID)
	if err != nil {
		return nil, err
	}
	codes, err := s.repo.ListQRCodes(ctx, venueID)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListOrders(ctx, domain.OrderFilter{VenueID: venueID, Limit: 20})
	if err != nil {
		return nil, err
	}
	stock, err := s.repo.ListStock(ctx, venueID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.repo.ListRecipes(ctx, venueID)
	if err != nil {
		return nil, err
	}
	staff, err := s.repo.ListStaff(ctx, venueID)
	if err != nil {
		return nil, err
	}
	cashflow, err := s.repo.ListCashflow(ctx, venueID, 20)
	if err != nil {
		return nil, err
	}
	alerts, err := s.repo.ListAlerts(ctx, &venueID, true)
	if err != nil {
		return nil, err
	}

	return &domain.Detail{
		Venue:    *venue,
		Bars:     bars,
		QRCodes:  codes,
		Orders:   orders,
		Stock:    stock,
		Recipes:  recipes,
		Staff:    staff,
		Cashflow: cashflow,
		Alerts:   alerts,
	}, nil
}

func (s *service) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	return s.repo.ListOrders(ctx, filter)
}

func (s *service) ListAlerts(ctx context.Context, venueID *snowflake.ID, unresolvedOnly bool) ([]*domain.SystemAlert, error) {
	return s.repo.ListAlerts(ctx, venueID, unresolvedOnly)
}

// ResolveAlert marks an alert resolved by the acting operator. Resolving
// an already-resolved alert is a no-op.
func (s *service) ResolveAlert(ctx context.Context, alertID snowflake.ID) (*domain.SystemAlert, error) {
	alert, err := s.repo.FindAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.IsResolved {
		return alert, nil
	}

	now := time.Now().UTC()
	fields := map[string]any{
		"is_resolved": true,
		"resolved_at": now,
	}
	if actorID, _ := auditcontext.ActorFromContext(ctx); actorID != "" {
		fields["resolved_by"] = actorID
	}
	if err := s.repo.UpdateAlert(ctx, alertID, fields); err != nil {
		return nil, err
	}

	_ = s.audit.Record(ctx, auditdomain.Entry{
		Action:     actionAlertResolved,
		EntityType: "system_alert",
		EntityID:   alertID.String(),
		Before:     map[string]any{"is_resolved": false},
		After:      map[string]any{"is_resolved": true},
	})

	return s.repo.FindAlert(ctx, alertID)
}
