package authorization

import (
	"context"
	_ "embed"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectTenant     = "tenant"
	ObjectTenantUser = "tenant_user"
	ObjectAuditLog   = "audit_log"
	ObjectVenue      = "venue"
	ObjectAdmin      = "admin"
)

const (
	ActionTenantView   = "tenant.view"
	ActionTenantCreate = "tenant.create"
	ActionTenantUpdate = "tenant.update"
	ActionTenantStatus = "tenant.status"
	ActionTenantDelete = "tenant.delete"

	ActionTenantUserManage = "tenant_user.manage"

	ActionAuditLogView = "audit_log.view"

	ActionVenueView         = "venue.view"
	ActionVenueAlertResolve = "venue.alert_resolve"

	ActionAdminView   = "admin.view"
	ActionAdminManage = "admin.manage"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, role string, object string, action string) error {
	_ = ctx

	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}
	role = strings.TrimSpace(strings.ToLower(role))
	if role == "" {
		return ErrForbidden
	}

	subject := "user:" + actor
	roleName := "role:" + role
	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("subject", subject),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

// ensureGrouping keeps the subject linked to exactly its current role.
// Role records can change externally, so stale links are removed.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// super_admin: full console surface
		{"role:super_admin", ObjectTenant, ActionTenantView},
		{"role:super_admin", ObjectTenant, ActionTenantCreate},
		{"role:super_admin", ObjectTenant, ActionTenantUpdate},
		{"role:super_admin", ObjectTenant, ActionTenantStatus},
		{"role:super_admin", ObjectTenant, ActionTenantDelete},
		{"role:super_admin", ObjectTenantUser, ActionTenantUserManage},
		{"role:super_admin", ObjectAuditLog, ActionAuditLogView},
		{"role:super_admin", ObjectVenue, ActionVenueView},
		{"role:super_admin", ObjectVenue, ActionVenueAlertResolve},
		{"role:super_admin", ObjectAdmin, ActionAdminView},
		{"role:super_admin", ObjectAdmin, ActionAdminManage},

		// support_admin: tenant care and venue operations
		{"role:support_admin", ObjectTenant, ActionTenantView},
		{"role:support_admin", ObjectTenant, ActionTenantUpdate},
		{"role:support_admin", ObjectTenant, ActionTenantStatus},
		{"role:support_admin", ObjectTenantUser, ActionTenantUserManage},
		{"role:support_admin", ObjectAuditLog, ActionAuditLogView},
		{"role:support_admin", ObjectVenue, ActionVenueView},
		{"role:support_admin", ObjectVenue, ActionVenueAlertResolve},

		// sales_admin: onboarding surface
		{"role:sales_admin", ObjectTenant, ActionTenantView},
		{"role:sales_admin", ObjectTenant, ActionTenantCreate},

		// read_only: view everything, touch nothing
		{"role:read_only", ObjectTenant, ActionTenantView},
		{"role:read_only", ObjectAuditLog, ActionAuditLogView},
		{"role:read_only", ObjectVenue, ActionVenueView},
		{"role:read_only", ObjectAdmin, ActionAdminView},
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}

var Module = fx.Module("authorization",
	fx.Provide(NewEnforcer),
	fx.Provide(NewService),
)
