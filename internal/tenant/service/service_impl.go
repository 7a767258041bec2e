package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/std-1224/payper-tenant/internal/audit/domain"
	"github.com/std-1224/payper-tenant/internal/auditcontext"
	registrydomain "github.com/std-1224/payper-tenant/internal/moduleregistry/domain"
	"github.com/std-1224/payper-tenant/internal/tenant/domain"
	"github.com/std-1224/payper-tenant/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	actionTenantCreated   = "TENANT_CREATED"
	actionTenantUpdated   = "TENANT_UPDATED"
	actionTenantSuspended = "TENANT_SUSPENDED"
	actionTenantActivated = "TENANT_ACTIVATED"
	actionTenantDeleted   = "TENANT_DELETED"

	entityTenant     = "tenant"
	entityTenantUser = "tenant_user"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Registry registrydomain.Repository
	Audit    auditdomain.Service
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	registry registrydomain.Repository
	audit    auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("tenant.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		registry: p.Registry,
		audit:    p.Audit,
	}
}

// Onboard converts a completed wizard draft into persisted records. The
// slug pre-check runs before any write; tenant, contacts and module
// activations commit in one transaction; the invite and audit entry are
// best-effort afterwards.
func (s *service) Onboard(ctx context.Context, req domain.OnboardRequest) (*domain.Tenant, error) {
	req.Basic.ApplyDefaults()
	if err := req.Basic.Validate(); err != nil {
		return nil, err
	}
	for _, contact := range req.Contacts {
		if err := contact.Validate(); err != nil {
			return nil, err
		}
	}
	if req.Invite != nil {
		if err := req.Invite.Validate(); err != nil {
			return nil, err
		}
	}

	taken, err := s.repo.SlugExists(ctx, req.Basic.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrSlugTaken
	}

	modules, err := s.resolveModules(ctx, req.ModuleIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	actorID, _ := auditcontext.ActorFromContext(ctx)

	tenant := &domain.Tenant{
		ID:              s.genID.Generate(),
		Name:            strings.TrimSpace(req.Basic.Name),
		LegalName:       optional(req.Basic.LegalName),
		Slug:            req.Basic.Slug,
		DefaultCurrency: req.Basic.DefaultCurrency,
		Timezone:        req.Basic.Timezone,
		Status:          req.Basic.Status,
		NotesInternal:   optional(req.Basic.NotesInternal),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.CreateTenant(ctx, tenant); err != nil {
			return err
		}

		contacts := make([]*domain.Contact, 0, len(req.Contacts))
		for _, draft := range req.Contacts {
			contacts = append(contacts, &domain.Contact{
				ID:        s.genID.Generate(),
				TenantID:  tenant.ID,
				Name:      strings.TrimSpace(draft.Name),
				Email:     strings.ToLower(strings.TrimSpace(draft.Email)),
				Phone:     optional(draft.Phone),
				RoleLabel: optional(draft.RoleLabel),
				IsPrimary: draft.IsPrimary,
				Notes:     optional(draft.Notes),
				CreatedAt: now,
			})
		}
		if err := repo.CreateContacts(ctx, contacts); err != nil {
			return err
		}

		activations := make([]*domain.ModuleActivation, 0, len(modules))
		for _, module := range modules {
			activation := &domain.ModuleActivation{
				ID:          s.genID.Generate(),
				TenantID:    tenant.ID,
				AppID:       module.ID,
				Enabled:     true,
				ActivatedAt: now,
				CreatedAt:   now,
			}
			if actorID != "" {
				activation.CreatedBy = &actorID
			}
			activations = append(activations, activation)
		}
		return repo.CreateModuleActivations(ctx, activations)
	})
	if err != nil {
		return nil, err
	}

	if req.Invite != nil {
		s.invite(ctx, tenant.ID, *req.Invite, now)
	}

	_ = s.audit.Record(ctx, auditdomain.Entry{
		Action:     actionTenantCreated,
		EntityType: entityTenant,
		EntityID:   tenant.ID.String(),
		After: map[string]any{
			"name":           tenant.Name,
			"slug":           tenant.Slug,
			"status":         string(tenant.Status),
			"modules_count":  len(modules),
			"contacts_count": len(req.Contacts),
		},
	})

	return tenant, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Detail, error) {
	tenant, err := s.repo.FindTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	contacts, err := s.repo.ListContacts(ctx, id)
	if err != nil {
		return nil, err
	}
	activations, err := s.repo.ListModuleActivations(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.ListUsers(ctx, id)
	if err != nil {
		return nil, err
	}
	locations, err := s.repo.ListLocations(ctx, id)
	if err != nil {
		return nil, err
	}

	moduleViews, err := s.joinRegistry(ctx, activations)
	if err != nil {
		return nil, err
	}

	return &domain.Detail{
		Tenant:    *tenant,
		Contacts:  contacts,
		Modules:   moduleViews,
		Users:     users,
		Locations: locations,
	}, nil
}

func (s *service) List(ctx context.Context, filter domain.ListFilter) ([]domain.ListItem, error) {
	tenants, err := s.repo.ListTenants(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(tenants))
	for _, tenant := range tenants {
		ids = append(ids, tenant.ID)
	}
	counts, err := s.repo.CountModuleActivations(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ListItem, 0, len(tenants))
	for _, tenant := range tenants {
		items = append(items, domain.ListItem{
			Tenant:       *tenant,
			ModulesCount: counts[tenant.ID],
		})
	}
	return items, nil
}

func (s *service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.Tenant, error) {
	before, err := s.repo.FindTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	beforeData := map[string]any{}
	afterData := map[string]any{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 2 || len(name) > 100 {
			return nil, domain.ErrInvalidName
		}
		if name != before.Name {
			fields["name"] = name
			beforeData["name"] = before.Name
			afterData["name"] = name
		}
	}
	if req.LegalName != nil {
		fields["legal_name"] = optional(*req.LegalName)
		beforeData["legal_name"] = before.LegalName
		afterData["legal_name"] = strings.TrimSpace(*req.LegalName)
	}
	if req.DefaultCurrency != nil {
		currency := strings.TrimSpace(*req.DefaultCurrency)
		if currency == "" {
			return nil, domain.ErrInvalidCurrency
		}
		if currency != before.DefaultCurrency {
			fields["default_currency"] = currency
			beforeData["default_currency"] = before.DefaultCurrency
			afterData["default_currency"] = currency
		}
	}
	if req.Timezone != nil {
		timezone := strings.TrimSpace(*req.Timezone)
		if timezone == "" {
			return nil, domain.ErrInvalidTimezone
		}
		if timezone != before.Timezone {
			fields["timezone"] = timezone
			beforeData["timezone"] = before.Timezone
			afterData["timezone"] = timezone
		}
	}
	if req.NotesInternal != nil {
		fields["notes_internal"] = optional(*req.NotesInternal)
		beforeData["notes_internal"] = before.NotesInternal
		afterData["notes_internal"] = strings.TrimSpace(*req.NotesInternal)
	}

	if len(fields) == 0 {
		return before, nil
	}
	fields["updated_at"] = time.Now().UTC()

	if err := s.repo.UpdateTenant(ctx, id, fields); err != nil {
		return nil, err
	}

	_ = s.audit.Record(ctx, auditdomain.Entry{
		Action:     actionTenantUpdated,
		EntityType: entityTenant,
		EntityID:   id.String(),
		Before:     beforeData,
		After:      afterData,
	})

	return s.repo.FindTenant(ctx, id)
}

func (s *service) SetStatus(ctx context.Context, id snowflake.ID, status domain.Status) (*domain.Tenant, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	before, err := s.repo.FindTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if before.Status == status {
		return before, nil
	}

	if err := s.repo.UpdateTenant(ctx, id, map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	action := actionTenantUpdated
	switch status {
	case domain.StatusSuspended:
		action = actionTenantSuspended
	case domain.StatusActive:
		action = actionTenantActivated
	}

	_ = s.audit.Record(ctx, auditdomain.Entry{
		Action:     action,
		EntityType: entityTenant,
		EntityID:   id.String(),
		Before:     map[string]any{"status": string(before.Status)},
		After:      map[string]any{"status": string(status)},
	})

	return s.repo.FindTenant(ctx, id)
}

func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	before, err := s.repo.FindTenant(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", id).Delete(&domain.Contact{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&domain.ModuleActivation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&domain.User{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&domain.Location{}).Error; err != nil {
			return err
		}
		return s.repo.WithTx(tx).DeleteTenant(ctx, id)
	})
	if err != nil {
		return err
	}

	_ = s.audit.Record(ctx, auditdomain.Entry{
		Action:     actionTenantDeleted,
		EntityType: entityTenant,
		EntityID:   id.String(),
		Before: map[string]any{
			"name": before.Name,
			"slug": before.Slug,
		},
	})

	return nil
}

func (s *service) AddContact(ctx context.Context, tenantID snowflake.ID, draft domain.ContactDraft) (*domain.Contact, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	contact := &domain.Contact{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Name:      strings.TrimSpace(draft.Name),
		Email:     strings.ToLower(strings.TrimSpace(draft.Email)),
		Phone:     optional(draft.Phone),
		RoleLabel: optional(draft.RoleLabel),
		IsPrimary: draft.IsPrimary,
		Notes:     optional(draft.Notes),
		CreatedAt: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if contact.IsPrimary {
			// A new primary demotes whichever contact held the flag.
			if err := repo.ClearPrimaryContacts(ctx, tenantID); err != nil {
				return err
			}
		}
		return repo.CreateContacts(ctx, []*domain.Contact{contact})
	})
	if err != nil {
		return nil, err
	}

	_ = s.audit.Record(ctx, auditdomain.Entry{
		Action:     actionTenantUpdated,
		EntityType: entityTenant,
		EntityID:   tenantID.String(),
		After: map[string]any{
			"contact_added": contact.Email,
			"is_primary":    contact.IsPrimary,
		},
	})

	return contact, nil
}

func (s *service) RemoveContact(ctx context.Context, tenantID, contactID snowflake.ID) error {
	contact, err := s.repo.FindContact(ctx, tenantID, contactID)
	if err != nil {
		return err
	}

	// Removing the primary contact leaves the tenant without one; the
	// operator picks a replacement explicitly.
	if err := s.repo.DeleteContact(ctx, tenantID, contactID); err != nil {
		return err
	}

	_ = s.audit.Record(ctx, auditdomain.Entry{
		Action:     actionTenantUpdated,
		EntityType: entityTenant,
		EntityID:   tenantID.String(),
		Before: map[string]any{
			"contact_removed": contact.Email,
			"was_primary":     contact.IsPrimary,
		},
	})

	return nil
}

func (s *service) ListModules(ctx context.Context) ([]*registrydomain.AppModule, error) {
	return s.registry.List(ctx)
}

func (s *service) SetModuleEnabled(ctx context.Context, tenantID, appID snowflake.ID, enabled bool) (*domain.ModuleView, error) {
	if _, err := s.repo.FindTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	modules, err := s.registry.FindByIDs(ctx, []snowflake.ID{appID})
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return nil, domain.ErrInvalidModule
	}
	module := modules[0]

	now := time.Now().UTC()
	actorID, _ := auditcontext.ActorFromContext(ctx)

	activation, err := s.repo.FindModuleActivation(ctx, tenantID, appID)
	switch {
	case errors.Is(err, domain.ErrActivationNotFound):
		activation = &domain.ModuleActivation{
			ID:          s.genID.Generate(),
			TenantID:    tenantID,
			AppID:       appID,
			Enabled:     enabled,
			ActivatedAt: now,
			CreatedAt:   now,
		}
		if actorID != "" {
			activation.CreatedBy = &actorID
		}
		if err := s.repo.CreateModuleActivations(ctx, []*domain.ModuleActivation{activation}); err != nil {
			return nil, err
		}
		_ = s.audit.Record(ctx, auditdomain.Entry{
			Action:     actionTenantUpdated,
			EntityType: entityTenant,
			EntityID:   tenantID.String(),
			After:      map[string]any{"module": module.Key, "enabled": enabled},
		})
	case err != nil:
		return nil, err
	case activation.Enabled != enabled:
		fields := map[string]any{"enabled": enabled}
		if enabled {
			fields["activated_at"] = now
			activation.ActivatedAt = now
		}
		if err := s.repo.UpdateModuleActivation(ctx, tenantID, appID, fields); err != nil {
			return nil, err
		}
		_ = s.audit.Record(ctx, auditdomain.Entry{
			Action:     actionTenantUpdated,
			EntityType: entityTenant,
			EntityID:   tenantID.String(),
			Before:     map[string]any{"module": module.Key, "enabled": activation.Enabled},
			After:      map[string]any{"module": module.Key, "enabled": enabled},
		})
		activation.Enabled = enabled
	}

	return &domain.ModuleView{
		ModuleActivation: *activation,
		Key:              module.Key,
		Name:             module.Name,
		IsCore:           module.IsCore,
	}, nil
}

func (s *service) AddUser(ctx context.Context, tenantID snowflake.ID, req domain.AddUserRequest) (*domain.User, error) {
	if !domain.ValidEmail(req.Email) {
		return nil, domain.ErrInvalidEmail
	}
	if !req.Role.IsValid() {
		return nil, domain.ErrInvalidRole
	}
	if _, err := s.repo.FindTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Role:      req.Role,
		Status:    domain.UserStatusInvited,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Re-invite of an existing address is idempotent.
			return s.findUserByEmail(ctx, tenantID, user.Email)
		}
		return nil, err
	}
	return user, nil
}

func (s *service) RemoveUser(ctx context.Context, tenantID, userID snowflake.ID) error {
	return s.repo.DeleteUser(ctx, tenantID, userID)
}

func (s *service) SetUserStatus(ctx context.Context, tenantID, userID snowflake.ID, status domain.UserStatus) error {
	if !status.IsValid() {
		return domain.ErrInvalidStatus
	}
	return s.repo.UpdateUser(ctx, tenantID, userID, map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
}

func (s *service) SetUserRole(ctx context.Context, tenantID, userID snowflake.ID, role domain.UserRole) error {
	if !role.IsValid() {
		return domain.ErrInvalidRole
	}
	return s.repo.UpdateUser(ctx, tenantID, userID, map[string]any{
		"role":       role,
		"updated_at": time.Now().UTC(),
	})
}

func (s *service) AddLocation(ctx context.Context, tenantID snowflake.ID, name, address, city, country string) (*domain.Location, error) {
	if len(strings.TrimSpace(name)) < 2 {
		return nil, domain.ErrInvalidLocation
	}
	if _, err := s.repo.FindTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	location := &domain.Location{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Name:      strings.TrimSpace(name),
		Address:   optional(address),
		City:      optional(city),
		Country:   optional(country),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateLocation(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// invite inserts the step-4 tenant user. Duplicate rows are swallowed,
// other failures are logged and never surfaced to the caller.
func (s *service) invite(ctx context.Context, tenantID snowflake.ID, draft domain.InviteDraft, now time.Time) {
	user := &domain.User{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Email:     strings.ToLower(strings.TrimSpace(draft.Email)),
		Role:      draft.Role,
		Status:    domain.UserStatusInvited,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return
		}
		s.log.Warn("failed to create tenant invite",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) resolveModules(ctx context.Context, ids []snowflake.ID) ([]*registrydomain.AppModule, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	modules, err := s.registry.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(modules) != len(dedupe(ids)) {
		return nil, domain.ErrInvalidModule
	}
	return modules, nil
}

func (s *service) joinRegistry(ctx context.Context, activations []*domain.ModuleActivation) ([]domain.ModuleView, error) {
	ids := make([]snowflake.ID, 0, len(activations))
	for _, activation := range activations {
		ids = append(ids, activation.AppID)
	}
	modules, err := s.registry.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]*registrydomain.AppModule, len(modules))
	for _, module := range modules {
		byID[module.ID] = module
	}

	views := make([]domain.ModuleView, 0, len(activations))
	for _, activation := range activations {
		view := domain.ModuleView{ModuleActivation: *activation}
		if module, ok := byID[activation.AppID]; ok {
			view.Key = module.Key
			view.Name = module.Name
			view.IsCore = module.IsCore
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *service) findUserByEmail(ctx context.Context, tenantID snowflake.ID, email string) (*domain.User, error) {
	users, err := s.repo.ListUsers(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func dedupe(ids []snowflake.ID) []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(ids))
	out := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func optional(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
