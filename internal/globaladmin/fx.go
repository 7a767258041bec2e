package globaladmin

import (
	"github.com/std-1224/payper-tenant/internal/globaladmin/repository"
	"github.com/std-1224/payper-tenant/internal/globaladmin/service"
	"go.uber.org/fx"
)

var Module = fx.Module("globaladmin.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
