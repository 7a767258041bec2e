package authorization

import (
	"context"
	"testing"

	"github.com/std-1224/payper-tenant/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	enforcer, err := NewEnforcer(dbConn)
	if err != nil {
		t.Fatalf("failed to build enforcer: %v", err)
	}
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestSuperAdminFullAccess(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, action := range []string{
		ActionTenantCreate, ActionTenantDelete, ActionTenantStatus,
	} {
		if err := svc.Authorize(ctx, "1", "super_admin", ObjectTenant, action); err != nil {
			t.Fatalf("expected super_admin allowed %s, got %v", action, err)
		}
	}
	if err := svc.Authorize(ctx, "1", "super_admin", ObjectAdmin, ActionAdminManage); err != nil {
		t.Fatalf("expected super_admin allowed admin.manage, got %v", err)
	}
}

func TestSalesAdminCannotDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "2", "sales_admin", ObjectTenant, ActionTenantCreate); err != nil {
		t.Fatalf("expected sales_admin allowed tenant.create, got %v", err)
	}
	if err := svc.Authorize(ctx, "2", "sales_admin", ObjectTenant, ActionTenantDelete); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for tenant.delete, got %v", err)
	}
}

func TestReadOnlyViewsOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "3", "read_only", ObjectVenue, ActionVenueView); err != nil {
		t.Fatalf("expected read_only allowed venue.view, got %v", err)
	}
	if err := svc.Authorize(ctx, "3", "read_only", ObjectVenue, ActionVenueAlertResolve); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for alert resolve, got %v", err)
	}
}

func TestRoleChangeDropsStaleGrouping(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "4", "super_admin", ObjectTenant, ActionTenantDelete); err != nil {
		t.Fatalf("expected allowed, got %v", err)
	}

	// Demoted operators lose the old role link on next check.
	if err := svc.Authorize(ctx, "4", "read_only", ObjectTenant, ActionTenantDelete); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden after demotion, got %v", err)
	}
}

func TestMissingRoleForbidden(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Authorize(context.Background(), "5", "", ObjectTenant, ActionTenantView); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
