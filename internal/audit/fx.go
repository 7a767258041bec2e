package audit

import (
	"github.com/std-1224/payper-tenant/internal/audit/repository"
	"github.com/std-1224/payper-tenant/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
