package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	SlugExists(ctx context.Context, slug string) (bool, error)
	CreateTenant(ctx context.Context, tenant *Tenant) error
	FindTenant(ctx context.Context, id snowflake.ID) (*Tenant, error)
	ListTenants(ctx context.Context, filter ListFilter) ([]*Tenant, error)
	UpdateTenant(ctx context.Context, id snowflake.ID, fields map[string]any) error
	DeleteTenant(ctx context.Context, id snowflake.ID) error

	CreateContacts(ctx context.Context, contacts []*Contact) error
	ListContacts(ctx context.Context, tenantID snowflake.ID) ([]*Contact, error)
	FindContact(ctx context.Context, tenantID, contactID snowflake.ID) (*Contact, error)
	DeleteContact(ctx context.Context, tenantID, contactID snowflake.ID) error
	ClearPrimaryContacts(ctx context.Context, tenantID snowflake.ID) error

	CreateModuleActivations(ctx context.Context, activations []*ModuleActivation) error
	ListModuleActivations(ctx context.Context, tenantID snowflake.ID) ([]*ModuleActivation, error)
	FindModuleActivation(ctx context.Context, tenantID, appID snowflake.ID) (*ModuleActivation, error)
	UpdateModuleActivation(ctx context.Context, tenantID, appID snowflake.ID, fields map[string]any) error
	CountModuleActivations(ctx context.Context, tenantIDs []snowflake.ID) (map[snowflake.ID]int64, error)

	CreateUser(ctx context.Context, user *User) error
	ListUsers(ctx context.Context, tenantID snowflake.ID) ([]*User, error)
	FindUser(ctx context.Context, tenantID, userID snowflake.ID) (*User, error)
	UpdateUser(ctx context.Context, tenantID, userID snowflake.ID, fields map[string]any) error
	DeleteUser(ctx context.Context, tenantID, userID snowflake.ID) error

	CreateLocation(ctx context.Context, location *Location) error
	ListLocations(ctx context.Context, tenantID snowflake.ID) ([]*Location, error)
}

// ListFilter narrows a tenant listing.
type ListFilter struct {
	Status Status
	Search string
	Limit  int
	Offset int
}
