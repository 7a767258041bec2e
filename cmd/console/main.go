package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/std-1224/payper-tenant/internal/audit"
	"github.com/std-1224/payper-tenant/internal/auth"
	"github.com/std-1224/payper-tenant/internal/auth/session"
	"github.com/std-1224/payper-tenant/internal/authorization"
	"github.com/std-1224/payper-tenant/internal/config"
	"github.com/std-1224/payper-tenant/internal/globaladmin"
	"github.com/std-1224/payper-tenant/internal/logger"
	"github.com/std-1224/payper-tenant/internal/migration"
	"github.com/std-1224/payper-tenant/internal/moduleregistry"
	"github.com/std-1224/payper-tenant/internal/observability"
	"github.com/std-1224/payper-tenant/internal/onboarding"
	"github.com/std-1224/payper-tenant/internal/server"
	"github.com/std-1224/payper-tenant/internal/tenant"
	"github.com/std-1224/payper-tenant/internal/venue"
	"github.com/std-1224/payper-tenant/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Identity and access
		auth.Module,
		session.Module,
		globaladmin.Module,
		authorization.Module,

		// Console domains
		moduleregistry.Module,
		audit.Module,
		tenant.Module,
		onboarding.Module,
		venue.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
