package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	registrydomain "github.com/std-1224/payper-tenant/internal/moduleregistry/domain"
)

// OnboardRequest is the materialized wizard draft handed to the
// submission sequencer.
type OnboardRequest struct {
	Basic     BasicInfo      `json:"basic"`
	Contacts  []ContactDraft `json:"contacts"`
	ModuleIDs []snowflake.ID `json:"module_ids"`
	Invite    *InviteDraft   `json:"invite,omitempty"`
}

// UpdateRequest carries editable tenant fields; nil pointers leave the
// field untouched.
type UpdateRequest struct {
	Name            *string `json:"name,omitempty"`
	LegalName       *string `json:"legal_name,omitempty"`
	DefaultCurrency *string `json:"default_currency,omitempty"`
	Timezone        *string `json:"timezone,omitempty"`
	NotesInternal   *string `json:"notes_internal,omitempty"`
}

// ModuleView joins an activation with its registry entry.
type ModuleView struct {
	ModuleActivation
	Key    string `json:"key"`
	Name   string `json:"name"`
	IsCore bool   `json:"is_core"`
}

// Detail is the full tenant aggregate for the detail view.
type Detail struct {
	Tenant    Tenant       `json:"tenant"`
	Contacts  []*Contact   `json:"contacts"`
	Modules   []ModuleView `json:"modules"`
	Users     []*User      `json:"users"`
	Locations []*Location  `json:"locations"`
}

// ListItem is one tenant row in the listing with a modules summary.
type ListItem struct {
	Tenant
	ModulesCount int64 `json:"modules_count"`
}

type AddUserRequest struct {
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

type Service interface {
	// Onboard runs the submission sequencer: slug pre-check, then tenant,
	// contacts and module activations in one transaction, then the
	// best-effort invite and audit entry.
	Onboard(ctx context.Context, req OnboardRequest) (*Tenant, error)

	Get(ctx context.Context, id snowflake.ID) (*Detail, error)
	List(ctx context.Context, filter ListFilter) ([]ListItem, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateRequest) (*Tenant, error)
	SetStatus(ctx context.Context, id snowflake.ID, status Status) (*Tenant, error)
	Delete(ctx context.Context, id snowflake.ID) error

	AddContact(ctx context.Context, tenantID snowflake.ID, draft ContactDraft) (*Contact, error)
	RemoveContact(ctx context.Context, tenantID, contactID snowflake.ID) error

	ListModules(ctx context.Context) ([]*registrydomain.AppModule, error)
	// SetModuleEnabled toggles a module for a tenant, creating the
	// activation on first enable.
	SetModuleEnabled(ctx context.Context, tenantID, appID snowflake.ID, enabled bool) (*ModuleView, error)

	AddUser(ctx context.Context, tenantID snowflake.ID, req AddUserRequest) (*User, error)
	RemoveUser(ctx context.Context, tenantID, userID snowflake.ID) error
	SetUserStatus(ctx context.Context, tenantID, userID snowflake.ID, status UserStatus) error
	SetUserRole(ctx context.Context, tenantID, userID snowflake.ID, role UserRole) error

	AddLocation(ctx context.Context, tenantID snowflake.ID, name, address, city, country string) (*Location, error)
}
