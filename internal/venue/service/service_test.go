package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/std-1224/payper-tenant/internal/audit/domain"
	auditrepo "github.com/std-1224/payper-tenant/internal/audit/repository"
	auditservice "github.com/std-1224/payper-tenant/internal/audit/service"
	"github.com/std-1224/payper-tenant/internal/auditcontext"
	"github.com/std-1224/payper-tenant/internal/venue/domain"
	"github.com/std-1224/payper-tenant/internal/venue/repository"
	"github.com/std-1224/payper-tenant/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	err = dbConn.AutoMigrate(
		&domain.Venue{},
		&domain.Bar{},
		&domain.QRCode{},
		&domain.Order{},
		&domain.CashflowEntry{},
		&domain.StockItem{},
		&domain.Recipe{},
		&domain.StaffMember{},
		&domain.SystemAlert{},
		&auditdomain.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	audit := auditservice.NewService(auditservice.Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  auditrepo.Provide(),
	})
	svc := NewService(Params{
		Log:   zap.NewNop(),
		Repo:  repository.New(dbConn),
		Audit: audit,
	})
	return svc, dbConn, node
}

func TestGetDetailAggregates(t *testing.T) {
	svc, dbConn, node := newTestService(t)

	venue := &domain.Venue{ID: node.Generate(), TenantID: node.Generate(), Name: "Palermo"}
	if err := dbConn.Create(venue).Error; err != nil {
		t.Fatalf("failed to seed venue: %v", err)
	}
	bar := &domain.Bar{ID: node.Generate(), VenueID: venue.ID, Name: "Main Bar", IsOpen: true}
	if err := dbConn.Create(bar).Error; err != nil {
		t.Fatalf("failed to seed bar: %v", err)
	}
	alert := &domain.SystemAlert{ID: node.Generate(), VenueID: &venue.ID, Severity: "warning", Message: "low stock"}
	if err := dbConn.Create(alert).Error; err != nil {
		t.Fatalf("failed to seed alert: %v", err)
	}

	detail, err := svc.GetDetail(context.Background(), venue.ID)
	if err != nil {
		t.Fatalf("failed to get detail: %v", err)
	}
	if detail.Venue.Name != "Palermo" {
		t.Fatalf("expected venue name, got %q", detail.Venue.Name)
	}
	if len(detail.Bars) != 1 || len(detail.Alerts) != 1 {
		t.Fatalf("expected aggregated children, got %d bars %d alerts", len(detail.Bars), len(detail.Alerts))
	}
}

func TestGetDetailUnknownVenue(t *testing.T) {
	svc, _, node := newTestService(t)

	if _, err := svc.GetDetail(context.Background(), node.Generate()); err != domain.ErrVenueNotFound {
		t.Fatalf("expected ErrVenueNotFound, got %v", err)
	}
}

func TestResolveAlert(t *testing.T) {
	svc, dbConn, node := newTestService(t)

	venueID := node.Generate()
	alert := &domain.SystemAlert{ID: node.Generate(), VenueID: &venueID, Severity: "critical", Message: "printer offline"}
	if err := dbConn.Create(alert).Error; err != nil {
		t.Fatalf("failed to seed alert: %v", err)
	}

	ctx := auditcontext.WithActor(context.Background(), "operator-1", "support_admin")
	resolved, err := svc.ResolveAlert(ctx, alert.ID)
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if !resolved.IsResolved || resolved.ResolvedAt == nil {
		t.Fatalf("expected resolved alert, got %+v", resolved)
	}
	if resolved.ResolvedBy == nil || *resolved.ResolvedBy != "operator-1" {
		t.Fatalf("expected resolver recorded, got %v", resolved.ResolvedBy)
	}

	// Resolving again is a no-op and keeps the original timestamp.
	again, err := svc.ResolveAlert(ctx, alert.ID)
	if err != nil {
		t.Fatalf("failed on repeat resolve: %v", err)
	}
	if !again.ResolvedAt.Equal(*resolved.ResolvedAt) {
		t.Fatal("expected resolve to be idempotent")
	}

	var count int64
	if err := dbConn.Model(&auditdomain.AuditLog{}).Where("action = ?", "ALERT_RESOLVED").Count(&count).Error; err != nil {
		t.Fatalf("failed to count audit entries: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one audit entry, got %d", count)
	}
}

func TestListAlertsUnresolvedFilter(t *testing.T) {
	svc, dbConn, node := newTestService(t)

	venueID := node.Generate()
	open := &domain.SystemAlert{ID: node.Generate(), VenueID: &venueID, Severity: "warning", Message: "open"}
	closed := &domain.SystemAlert{ID: node.Generate(), VenueID: &venueID, Severity: "warning", Message: "closed", IsResolved: true}
	if err := dbConn.Create(open).Error; err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	if err := dbConn.Create(closed).Error; err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	alerts, err := svc.ListAlerts(context.Background(), &venueID, true)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Message != "open" {
		t.Fatalf("expected only unresolved alert, got %d", len(alerts))
	}
}
