package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/std-1224/payper-tenant/internal/audit/domain"
	auditrepo "github.com/std-1224/payper-tenant/internal/audit/repository"
	auditservice "github.com/std-1224/payper-tenant/internal/audit/service"
	registrydomain "github.com/std-1224/payper-tenant/internal/moduleregistry/domain"
	registryrepo "github.com/std-1224/payper-tenant/internal/moduleregistry/repository"
	"github.com/std-1224/payper-tenant/internal/tenant/domain"
	"github.com/std-1224/payper-tenant/internal/tenant/repository"
	"github.com/std-1224/payper-tenant/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	registry registrydomain.Repository
	core     []*registrydomain.AppModule
	optional *registrydomain.AppModule
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	err = dbConn.AutoMigrate(
		&domain.Tenant{},
		&domain.Contact{},
		&domain.ModuleActivation{},
		&domain.User{},
		&domain.Location{},
		&registrydomain.AppModule{},
		&auditdomain.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	registry := registryrepo.New(dbConn)
	core := []*registrydomain.AppModule{
		{ID: node.Generate(), Key: "pos", Name: "Point of Sale", IsCore: true},
		{ID: node.Generate(), Key: "orders", Name: "Orders", IsCore: true},
	}
	optional := &registrydomain.AppModule{ID: node.Generate(), Key: "stock", Name: "Stock"}
	for _, module := range append(core, optional) {
		if err := registry.Create(context.Background(), module); err != nil {
			t.Fatalf("failed to seed registry: %v", err)
		}
	}

	audit := auditservice.NewService(auditservice.Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  auditrepo.Provide(),
	})

	svc := NewService(Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     repository.New(dbConn),
		Registry: registry,
		Audit:    audit,
	})

	return &fixture{svc: svc, db: dbConn, node: node, registry: registry, core: core, optional: optional}
}

func (f *fixture) coreIDs() []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(f.core))
	for _, module := range f.core {
		ids = append(ids, module.ID)
	}
	return ids
}

func (f *fixture) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	return count
}

func TestOnboardCreatesTenantWithContactsAndModules(t *testing.T) {
	f := newFixture(t)

	tenant, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic: domain.BasicInfo{
			Name: "Bar Palermo",
			Slug: "bar-palermo",
		},
		Contacts: []domain.ContactDraft{
			{Name: "John Doe", Email: "john@company.com", IsPrimary: true},
		},
		ModuleIDs: f.coreIDs(),
	})
	if err != nil {
		t.Fatalf("failed to onboard: %v", err)
	}

	if tenant.Slug != "bar-palermo" {
		t.Fatalf("expected slug bar-palermo, got %s", tenant.Slug)
	}
	if tenant.Status != domain.StatusTrial {
		t.Fatalf("expected default trial status, got %s", tenant.Status)
	}
	if tenant.DefaultCurrency != domain.DefaultCurrency {
		t.Fatalf("expected default currency, got %s", tenant.DefaultCurrency)
	}

	if got := f.count(t, &domain.Contact{}, "tenant_id = ?", tenant.ID); got != 1 {
		t.Fatalf("expected 1 contact, got %d", got)
	}
	if got := f.count(t, &domain.ModuleActivation{}, "tenant_id = ?", tenant.ID); got != 2 {
		t.Fatalf("expected 2 module activations, got %d", got)
	}
	if got := f.count(t, &domain.User{}, "tenant_id = ?", tenant.ID); got != 0 {
		t.Fatalf("expected no tenant users, got %d", got)
	}

	var entry auditdomain.AuditLog
	if err := f.db.Where("action = ?", "TENANT_CREATED").First(&entry).Error; err != nil {
		t.Fatalf("expected audit entry: %v", err)
	}
	if entry.AfterData["modules_count"] != float64(2) && entry.AfterData["modules_count"] != int64(2) {
		t.Fatalf("expected modules_count 2, got %v", entry.AfterData["modules_count"])
	}
	if entry.AfterData["contacts_count"] != float64(1) && entry.AfterData["contacts_count"] != int64(1) {
		t.Fatalf("expected contacts_count 1, got %v", entry.AfterData["contacts_count"])
	}
}

func TestOnboardSlugCollisionWritesNothing(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic: domain.BasicInfo{Name: "Bar Palermo", Slug: "bar-palermo"},
	}); err != nil {
		t.Fatalf("failed to onboard first tenant: %v", err)
	}

	_, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic: domain.BasicInfo{Name: "Bar Palermo Dos", Slug: "bar-palermo"},
		Contacts: []domain.ContactDraft{
			{Name: "Jane Roe", Email: "jane@company.com"},
		},
		ModuleIDs: f.coreIDs(),
	})
	if err != domain.ErrSlugTaken {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}

	if got := f.count(t, &domain.Tenant{}, "1 = 1"); got != 1 {
		t.Fatalf("expected single tenant row, got %d", got)
	}
	if got := f.count(t, &domain.Contact{}, "1 = 1"); got != 1 {
		t.Fatalf("expected only first tenant's contact rows, got %d", got)
	}
	if got := f.count(t, &auditdomain.AuditLog{}, "action = ?", "TENANT_CREATED"); got != 1 {
		t.Fatalf("expected single audit entry, got %d", got)
	}
}

func TestOnboardInviteCreatesInvitedUser(t *testing.T) {
	f := newFixture(t)

	tenant, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic: domain.BasicInfo{Name: "Cafe Centro", Slug: "cafe-centro"},
		Invite: &domain.InviteDraft{
			Email: "admin@company.com",
			Role:  domain.UserRoleOwner,
		},
	})
	if err != nil {
		t.Fatalf("failed to onboard: %v", err)
	}

	var users []*domain.User
	if err := f.db.Where("tenant_id = ?", tenant.ID).Find(&users).Error; err != nil {
		t.Fatalf("failed to load users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected exactly one tenant user, got %d", len(users))
	}
	if users[0].Status != domain.UserStatusInvited {
		t.Fatalf("expected invited status, got %s", users[0].Status)
	}
	if users[0].Role != domain.UserRoleOwner {
		t.Fatalf("expected tenant_owner role, got %s", users[0].Role)
	}
}

func TestOnboardRejectsInvalidSlug(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic: domain.BasicInfo{Name: "Bar Palermo", Slug: "Bar Palermo!"},
	})
	if err != domain.ErrInvalidSlug {
		t.Fatalf("expected ErrInvalidSlug, got %v", err)
	}
	if got := f.count(t, &domain.Tenant{}, "1 = 1"); got != 0 {
		t.Fatalf("expected no tenant rows, got %d", got)
	}
}

func TestOnboardRejectsUnknownModule(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic:     domain.BasicInfo{Name: "Bar Palermo", Slug: "bar-palermo"},
		ModuleIDs: []snowflake.ID{f.node.Generate()},
	})
	if err != domain.ErrInvalidModule {
		t.Fatalf("expected ErrInvalidModule, got %v", err)
	}
}

func TestUpdateRecordsBeforeAfterAudit(t *testing.T) {
	f := newFixture(t)

	tenant, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic: domain.BasicInfo{Name: "Bar Palermo", Slug: "bar-palermo"},
	})
	if err != nil {
		t.Fatalf("failed to onboard: %v", err)
	}

	newName := "Bar Palermo Soho"
	updated, err := f.svc.Update(context.Background(), tenant.ID, domain.UpdateRequest{Name: &newName})
	if err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	if updated.Name != newName {
		t.Fatalf("expected updated name, got %s", updated.Name)
	}

	var entry auditdomain.AuditLog
	if err := f.db.Where("action = ?", "TENANT_UPDATED").First(&entry).Error; err != nil {
		t.Fatalf("expected audit entry: %v", err)
	}
	if entry.BeforeData["name"] != "Bar Palermo" {
		t.Fatalf("expected before name, got %v", entry.BeforeData["name"])
	}
	if entry.AfterData["name"] != newName {
		t.Fatalf("expected after name, got %v", entry.AfterData["name"])
	}
}

func TestSetStatusEmitsLifecycleActions(t *testing.T) {
	f := newFixture(t)

	tenant, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic: domain.BasicInfo{Name: "Bar Palermo", Slug: "bar-palermo"},
	})
	if err != nil {
		t.Fatalf("failed to onboard: %v", err)
	}

	if _, err := f.svc.SetStatus(context.Background(), tenant.ID, domain.StatusSuspended); err != nil {
		t.Fatalf("failed to suspend: %v", err)
	}
	if _, err := f.svc.SetStatus(context.Background(), tenant.ID, domain.StatusActive); err != nil {
		t.Fatalf("failed to activate: %v", err)
	}

	if got := f.count(t, &auditdomain.AuditLog{}, "action = ?", "TENANT_SUSPENDED"); got != 1 {
		t.Fatalf("expected TENANT_SUSPENDED entry, got %d", got)
	}
	if got := f.count(t, &auditdomain.AuditLog{}, "action = ?", "TENANT_ACTIVATED"); got != 1 {
		t.Fatalf("expected TENANT_ACTIVATED entry, got %d", got)
	}
}

func TestDeleteRemovesChildren(t *testing.T) {
	f := newFixture(t)

	tenant, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic: domain.BasicInfo{Name: "Bar Palermo", Slug: "bar-palermo"},
		Contacts: []domain.ContactDraft{
			{Name: "John Doe", Email: "john@company.com"},
		},
		ModuleIDs: f.coreIDs(),
		Invite:    &domain.InviteDraft{Email: "admin@company.com", Role: domain.UserRoleOwner},
	})
	if err != nil {
		t.Fatalf("failed to onboard: %v", err)
	}

	if err := f.svc.Delete(context.Background(), tenant.ID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}

	if got := f.count(t, &domain.Tenant{}, "id = ?", tenant.ID); got != 0 {
		t.Fatalf("expected tenant removed, got %d", got)
	}
	if got := f.count(t, &domain.Contact{}, "tenant_id = ?", tenant.ID); got != 0 {
		t.Fatalf("expected contacts removed, got %d", got)
	}
	if got := f.count(t, &domain.ModuleActivation{}, "tenant_id = ?", tenant.ID); got != 0 {
		t.Fatalf("expected activations removed, got %d", got)
	}
	if got := f.count(t, &domain.User{}, "tenant_id = ?", tenant.ID); got != 0 {
		t.Fatalf("expected users removed, got %d", got)
	}
	if got := f.count(t, &auditdomain.AuditLog{}, "action = ?", "TENANT_DELETED"); got != 1 {
		t.Fatalf("expected TENANT_DELETED entry, got %d", got)
	}
}

func TestAddUserIsConflictTolerant(t *testing.T) {
	f := newFixture(t)

	tenant, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic: domain.BasicInfo{Name: "Bar Palermo", Slug: "bar-palermo"},
	})
	if err != nil {
		t.Fatalf("failed to onboard: %v", err)
	}

	first, err := f.svc.AddUser(context.Background(), tenant.ID, domain.AddUserRequest{
		Email: "ops@company.com",
		Role:  domain.UserRoleOps,
	})
	if err != nil {
		t.Fatalf("failed to add user: %v", err)
	}

	second, err := f.svc.AddUser(context.Background(), tenant.ID, domain.AddUserRequest{
		Email: "ops@company.com",
		Role:  domain.UserRoleOps,
	})
	if err != nil {
		t.Fatalf("expected conflict-tolerant add, got %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same user returned on re-invite")
	}

	if got := f.count(t, &domain.User{}, "tenant_id = ?", tenant.ID); got != 1 {
		t.Fatalf("expected one user row, got %d", got)
	}
}

func TestAddContactDemotesExistingPrimary(t *testing.T) {
	f := newFixture(t)

	tenant, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic: domain.BasicInfo{Name: "Bar Palermo", Slug: "bar-palermo"},
		Contacts: []domain.ContactDraft{
			{Name: "John Doe", Email: "john@company.com", IsPrimary: true},
		},
	})
	if err != nil {
		t.Fatalf("failed to onboard: %v", err)
	}

	added, err := f.svc.AddContact(context.Background(), tenant.ID, domain.ContactDraft{
		Name:      "Jane Roe",
		Email:     "JANE@company.com",
		IsPrimary: true,
	})
	if err != nil {
		t.Fatalf("failed to add contact: %v", err)
	}
	if added.Email != "jane@company.com" {
		t.Fatalf("expected normalized email, got %s", added.Email)
	}

	if got := f.count(t, &domain.Contact{}, "tenant_id = ? AND is_primary = ?", tenant.ID, true); got != 1 {
		t.Fatalf("expected exactly one primary contact, got %d", got)
	}
	var primary domain.Contact
	if err := f.db.Where("tenant_id = ? AND is_primary = ?", tenant.ID, true).First(&primary).Error; err != nil {
		t.Fatalf("failed to load primary: %v", err)
	}
	if primary.ID != added.ID {
		t.Fatalf("expected new contact to hold the primary flag")
	}
}

func TestRemoveContactDoesNotPromoteAnother(t *testing.T) {
	f := newFixture(t)

	tenant, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic: domain.BasicInfo{Name: "Bar Palermo", Slug: "bar-palermo"},
		Contacts: []domain.ContactDraft{
			{Name: "John Doe", Email: "john@company.com", IsPrimary: true},
			{Name: "Jane Roe", Email: "jane@company.com"},
		},
	})
	if err != nil {
		t.Fatalf("failed to onboard: %v", err)
	}

	var primary domain.Contact
	if err := f.db.Where("tenant_id = ? AND is_primary = ?", tenant.ID, true).First(&primary).Error; err != nil {
		t.Fatalf("failed to load primary: %v", err)
	}

	if err := f.svc.RemoveContact(context.Background(), tenant.ID, primary.ID); err != nil {
		t.Fatalf("failed to remove contact: %v", err)
	}

	if got := f.count(t, &domain.Contact{}, "tenant_id = ?", tenant.ID); got != 1 {
		t.Fatalf("expected one contact left, got %d", got)
	}
	if got := f.count(t, &domain.Contact{}, "tenant_id = ? AND is_primary = ?", tenant.ID, true); got != 0 {
		t.Fatalf("expected no primary after removal, got %d", got)
	}

	if err := f.svc.RemoveContact(context.Background(), tenant.ID, primary.ID); err != domain.ErrContactNotFound {
		t.Fatalf("expected ErrContactNotFound on repeat removal, got %v", err)
	}
}

func TestSetModuleEnabledTogglesActivation(t *testing.T) {
	f := newFixture(t)

	tenant, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic: domain.BasicInfo{Name: "Bar Palermo", Slug: "bar-palermo"},
	})
	if err != nil {
		t.Fatalf("failed to onboard: %v", err)
	}

	view, err := f.svc.SetModuleEnabled(context.Background(), tenant.ID, f.optional.ID, true)
	if err != nil {
		t.Fatalf("failed to enable module: %v", err)
	}
	if !view.Enabled || view.Key != "stock" {
		t.Fatalf("expected enabled stock view, got enabled=%v key=%q", view.Enabled, view.Key)
	}

	view, err = f.svc.SetModuleEnabled(context.Background(), tenant.ID, f.optional.ID, false)
	if err != nil {
		t.Fatalf("failed to disable module: %v", err)
	}
	if view.Enabled {
		t.Fatalf("expected module disabled")
	}

	// Disabling again is a no-op, not an error.
	if _, err := f.svc.SetModuleEnabled(context.Background(), tenant.ID, f.optional.ID, false); err != nil {
		t.Fatalf("expected idempotent disable, got %v", err)
	}

	if got := f.count(t, &domain.ModuleActivation{}, "tenant_id = ?", tenant.ID); got != 1 {
		t.Fatalf("expected single activation row, got %d", got)
	}

	if _, err := f.svc.SetModuleEnabled(context.Background(), tenant.ID, f.node.Generate(), true); err != domain.ErrInvalidModule {
		t.Fatalf("expected ErrInvalidModule for unknown module, got %v", err)
	}
}

func TestGetJoinsRegistry(t *testing.T) {
	f := newFixture(t)

	tenant, err := f.svc.Onboard(context.Background(), domain.OnboardRequest{
		Basic:     domain.BasicInfo{Name: "Bar Palermo", Slug: "bar-palermo"},
		ModuleIDs: []snowflake.ID{f.optional.ID},
	})
	if err != nil {
		t.Fatalf("failed to onboard: %v", err)
	}

	detail, err := f.svc.Get(context.Background(), tenant.ID)
	if err != nil {
		t.Fatalf("failed to get detail: %v", err)
	}
	if len(detail.Modules) != 1 {
		t.Fatalf("expected one module view, got %d", len(detail.Modules))
	}
	if detail.Modules[0].Key != "stock" {
		t.Fatalf("expected registry key joined, got %q", detail.Modules[0].Key)
	}
}
