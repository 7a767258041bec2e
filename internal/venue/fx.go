package venue

import (
	"github.com/std-1224/payper-tenant/internal/venue/repository"
	"github.com/std-1224/payper-tenant/internal/venue/service"
	"go.uber.org/fx"
)

var Module = fx.Module("venue.service",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
)
