package onboarding

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/std-1224/payper-tenant/internal/audit/domain"
	auditrepo "github.com/std-1224/payper-tenant/internal/audit/repository"
	auditservice "github.com/std-1224/payper-tenant/internal/audit/service"
	registrydomain "github.com/std-1224/payper-tenant/internal/moduleregistry/domain"
	registryrepo "github.com/std-1224/payper-tenant/internal/moduleregistry/repository"
	tenantdomain "github.com/std-1224/payper-tenant/internal/tenant/domain"
	tenantrepo "github.com/std-1224/payper-tenant/internal/tenant/repository"
	tenantservice "github.com/std-1224/payper-tenant/internal/tenant/service"
	"github.com/std-1224/payper-tenant/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc      *Service
	store    *Store
	db       *gorm.DB
	node     *snowflake.Node
	owner    snowflake.ID
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
		&tenantdomain.Tenant{},
		&tenantdomain.Contact{},
		&tenantdomain.ModuleActivation{},
		&tenantdomain.User{},
		&tenantdomain.Location{},
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
	tenants := tenantservice.NewService(tenantservice.Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     tenantrepo.New(dbConn),
		Registry: registry,
		Audit:    audit,
	})

	store := NewStore(DefaultDraftTTL)
	svc := NewService(zap.NewNop(), store, registry, tenants)

	return &fixture{
		svc:      svc,
		store:    store,
		db:       dbConn,
		node:     node,
		owner:    node.Generate(),
		core:     core,
		optional: optional,
	}
}

func (f *fixture) startDraft(t *testing.T) *Draft {
	t.Helper()
	return f.svc.Start(context.Background(), f.owner)
}

func (f *fixture) fillBasic(t *testing.T, draftID, name string) *Draft {
	t.Helper()
	draft, err := f.svc.UpdateBasic(context.Background(), f.owner, draftID, BasicInput{Name: &name})
	if err != nil {
		t.Fatalf("failed to update basic info: %v", err)
	}
	return draft
}

func TestSlugAutoDerivesUntilTouched(t *testing.T) {
	f := newFixture(t)
	draft := f.startDraft(t)

	draft = f.fillBasic(t, draft.ID, "Bar Palermo")
	if draft.Basic.Slug != "bar-palermo" {
		t.Fatalf("expected derived slug, got %q", draft.Basic.Slug)
	}

	manual := "custom-slug"
	draft, err := f.svc.UpdateBasic(context.Background(), f.owner, draft.ID, BasicInput{Slug: &manual})
	if err != nil {
		t.Fatalf("failed to set slug: %v", err)
	}

	// Renaming after a manual slug edit must not clobber the slug.
	draft = f.fillBasic(t, draft.ID, "Bar Palermo Soho")
	if draft.Basic.Slug != "custom-slug" {
		t.Fatalf("expected pinned slug, got %q", draft.Basic.Slug)
	}
}

func TestConfirmingDerivedSlugPinsIt(t *testing.T) {
	f := newFixture(t)
	draft := f.startDraft(t)

	draft = f.fillBasic(t, draft.ID, "Bar Palermo")

	// A manual edit that confirms the derived value still pins the slug.
	confirmed := "bar-palermo"
	draft, err := f.svc.UpdateBasic(context.Background(), f.owner, draft.ID, BasicInput{Slug: &confirmed})
	if err != nil {
		t.Fatalf("failed to confirm slug: %v", err)
	}

	draft = f.fillBasic(t, draft.ID, "Bar Palermo Soho")
	if draft.Basic.Slug != "bar-palermo" {
		t.Fatalf("expected slug pinned after confirmation, got %q", draft.Basic.Slug)
	}
}

func TestAdvanceBlockedOnInvalidBasicInfo(t *testing.T) {
	f := newFixture(t)
	draft := f.startDraft(t)

	if _, err := f.svc.Advance(context.Background(), f.owner, draft.ID); err != tenantdomain.ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	badSlug := "Not A Slug"
	name := "Bar Palermo"
	if _, err := f.svc.UpdateBasic(context.Background(), f.owner, draft.ID, BasicInput{Name: &name, Slug: &badSlug}); err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	if _, err := f.svc.Advance(context.Background(), f.owner, draft.ID); err != tenantdomain.ErrInvalidSlug {
		t.Fatalf("expected ErrInvalidSlug, got %v", err)
	}
}

func TestBackIsLossless(t *testing.T) {
	f := newFixture(t)
	draft := f.startDraft(t)
	f.fillBasic(t, draft.ID, "Bar Palermo")

	if _, err := f.svc.Advance(context.Background(), f.owner, draft.ID); err != nil {
		t.Fatalf("failed to advance: %v", err)
	}
	if _, err := f.svc.AddContact(context.Background(), f.owner, draft.ID, tenantdomain.ContactDraft{
		Name: "John Doe", Email: "john@company.com", IsPrimary: true,
	}); err != nil {
		t.Fatalf("failed to add contact: %v", err)
	}

	back, err := f.svc.Back(context.Background(), f.owner, draft.ID)
	if err != nil {
		t.Fatalf("failed to go back: %v", err)
	}
	if back.Step != StepBasicInfo {
		t.Fatalf("expected step 1, got %s", back.Step)
	}
	if len(back.Contacts) != 1 {
		t.Fatalf("expected contact preserved, got %d", len(back.Contacts))
	}
}

func TestPrimaryContactInvariant(t *testing.T) {
	f := newFixture(t)
	draft := f.startDraft(t)

	add := func(name, email string, primary bool) *Draft {
		d, err := f.svc.AddContact(context.Background(), f.owner, draft.ID, tenantdomain.ContactDraft{
			Name: name, Email: email, IsPrimary: primary,
		})
		if err != nil {
			t.Fatalf("failed to add contact: %v", err)
		}
		return d
	}
	primaries := func(d *Draft) int {
		count := 0
		for _, entry := range d.Contacts {
			if entry.IsPrimary {
				count++
			}
		}
		return count
	}

	d := add("John Doe", "john@company.com", true)
	d = add("Jane Roe", "jane@company.com", true)
	if primaries(d) != 1 {
		t.Fatalf("expected one primary after second add, got %d", primaries(d))
	}
	if d.Contacts[0].IsPrimary {
		t.Fatal("expected first contact demoted")
	}

	d, err := f.svc.SetPrimaryContact(context.Background(), f.owner, draft.ID, d.Contacts[0].Token)
	if err != nil {
		t.Fatalf("failed to set primary: %v", err)
	}
	if primaries(d) != 1 || !d.Contacts[0].IsPrimary {
		t.Fatalf("expected first contact primary, got %d", primaries(d))
	}

	// Removing the primary never promotes another contact.
	d, err = f.svc.RemoveContact(context.Background(), f.owner, draft.ID, d.Contacts[0].Token)
	if err != nil {
		t.Fatalf("failed to remove contact: %v", err)
	}
	if primaries(d) != 0 {
		t.Fatalf("expected zero primaries after removal, got %d", primaries(d))
	}
}

func TestContactValidation(t *testing.T) {
	f := newFixture(t)
	draft := f.startDraft(t)

	if _, err := f.svc.AddContact(context.Background(), f.owner, draft.ID, tenantdomain.ContactDraft{
		Name: "J", Email: "john@company.com",
	}); err != tenantdomain.ErrInvalidContact {
		t.Fatalf("expected ErrInvalidContact, got %v", err)
	}
	if _, err := f.svc.AddContact(context.Background(), f.owner, draft.ID, tenantdomain.ContactDraft{
		Name: "John Doe", Email: "not-an-email",
	}); err != tenantdomain.ErrInvalidEmail {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestModuleSeedingEqualsCoreSet(t *testing.T) {
	f := newFixture(t)
	draft := f.startDraft(t)
	f.fillBasic(t, draft.ID, "Bar Palermo")

	var d *Draft
	var err error
	for i := 0; i < 2; i++ {
		if d, err = f.svc.Advance(context.Background(), f.owner, draft.ID); err != nil {
			t.Fatalf("failed to advance: %v", err)
		}
	}
	if d.Step != StepModules {
		t.Fatalf("expected modules step, got %s", d.Step)
	}
	if len(d.Selected) != len(f.core) {
		t.Fatalf("expected %d seeded modules, got %d", len(f.core), len(d.Selected))
	}
	for _, module := range f.core {
		if !d.Selected[module.ID] {
			t.Fatalf("expected core module %s selected", module.Key)
		}
	}
	if d.Selected[f.optional.ID] {
		t.Fatal("expected optional module unselected")
	}
}

func TestCoreModuleDeselectionSticks(t *testing.T) {
	f := newFixture(t)
	draft := f.startDraft(t)
	f.fillBasic(t, draft.ID, "Bar Palermo")

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Advance(context.Background(), f.owner, draft.ID); err != nil {
			t.Fatalf("failed to advance: %v", err)
		}
	}

	d, err := f.svc.ToggleModule(context.Background(), f.owner, draft.ID, f.core[0].ID)
	if err != nil {
		t.Fatalf("failed to toggle: %v", err)
	}
	if d.Selected[f.core[0].ID] {
		t.Fatal("expected core module deselected")
	}

	// Leaving and re-entering the step must not re-seed.
	if _, err := f.svc.Back(context.Background(), f.owner, draft.ID); err != nil {
		t.Fatalf("failed to go back: %v", err)
	}
	d, err = f.svc.Advance(context.Background(), f.owner, draft.ID)
	if err != nil {
		t.Fatalf("failed to re-advance: %v", err)
	}
	if d.Selected[f.core[0].ID] {
		t.Fatal("expected deselection preserved on re-entry")
	}
}

func TestInviteToggleDiscardsDraftInvite(t *testing.T) {
	f := newFixture(t)
	draft := f.startDraft(t)

	d, err := f.svc.SetInviteEnabled(context.Background(), f.owner, draft.ID, true)
	if err != nil {
		t.Fatalf("failed to enable invite: %v", err)
	}
	if d.Invite == nil || d.Invite.Role != tenantdomain.UserRoleOwner {
		t.Fatalf("expected invite defaults, got %+v", d.Invite)
	}

	email := "admin@company.com"
	if _, err := f.svc.UpdateInvite(context.Background(), f.owner, draft.ID, &email, nil); err != nil {
		t.Fatalf("failed to update invite: %v", err)
	}

	d, err = f.svc.SetInviteEnabled(context.Background(), f.owner, draft.ID, false)
	if err != nil {
		t.Fatalf("failed to disable invite: %v", err)
	}
	if d.Invite != nil {
		t.Fatal("expected invite discarded")
	}

	// Re-enabling starts from defaults again.
	d, err = f.svc.SetInviteEnabled(context.Background(), f.owner, draft.ID, true)
	if err != nil {
		t.Fatalf("failed to re-enable invite: %v", err)
	}
	if d.Invite.Email != "" {
		t.Fatalf("expected empty email, got %q", d.Invite.Email)
	}
}

func TestSubmitSlugCollisionSnapsToStepOne(t *testing.T) {
	f := newFixture(t)

	first := f.startDraft(t)
	f.fillBasic(t, first.ID, "Bar Palermo")
	if _, err := f.svc.Submit(context.Background(), f.owner, first.ID); err != nil {
		t.Fatalf("failed to submit first draft: %v", err)
	}

	second := f.startDraft(t)
	f.fillBasic(t, second.ID, "Bar Palermo")
	for i := 0; i < 3; i++ {
		if _, err := f.svc.Advance(context.Background(), f.owner, second.ID); err != nil {
			t.Fatalf("failed to advance: %v", err)
		}
	}
	if _, err := f.svc.AddContact(context.Background(), f.owner, second.ID, tenantdomain.ContactDraft{
		Name: "Jane Roe", Email: "jane@company.com",
	}); err != nil {
		t.Fatalf("failed to add contact: %v", err)
	}

	if _, err := f.svc.Submit(context.Background(), f.owner, second.ID); err != tenantdomain.ErrSlugTaken {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}

	d, err := f.svc.Get(context.Background(), f.owner, second.ID)
	if err != nil {
		t.Fatalf("expected draft to survive collision: %v", err)
	}
	if d.Step != StepBasicInfo {
		t.Fatalf("expected wizard snapped to step 1, got %s", d.Step)
	}
	if len(d.Contacts) != 1 || len(d.Selected) != len(f.core) {
		t.Fatalf("expected drafted contacts and modules intact, got %d contacts %d modules", len(d.Contacts), len(d.Selected))
	}
}

func TestSubmitDiscardsDraftOnSuccess(t *testing.T) {
	f := newFixture(t)
	draft := f.startDraft(t)
	f.fillBasic(t, draft.ID, "Cafe Centro")

	created, err := f.svc.Submit(context.Background(), f.owner, draft.ID)
	if err != nil {
		t.Fatalf("failed to submit: %v", err)
	}
	if created.Slug != "cafe-centro" {
		t.Fatalf("expected derived slug persisted, got %q", created.Slug)
	}

	if _, err := f.svc.Get(context.Background(), f.owner, draft.ID); err != ErrDraftNotFound {
		t.Fatalf("expected draft discarded, got %v", err)
	}
}

func TestDraftOwnershipAndExpiry(t *testing.T) {
	f := newFixture(t)
	draft := f.startDraft(t)

	stranger := f.node.Generate()
	if _, err := f.svc.Get(context.Background(), stranger, draft.ID); err != ErrDraftNotFound {
		t.Fatalf("expected foreign draft hidden, got %v", err)
	}

	store := NewStore(time.Millisecond)
	expiring := store.Create(f.owner)
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Get(expiring.ID, f.owner); err != ErrDraftNotFound {
		t.Fatalf("expected expired draft evicted, got %v", err)
	}
}
