package tenant

import (
	"github.com/std-1224/payper-tenant/internal/tenant/repository"
	"github.com/std-1224/payper-tenant/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
)
