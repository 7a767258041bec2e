package auth

import (
	"github.com/std-1224/payper-tenant/internal/auth/repository"
	"github.com/std-1224/payper-tenant/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
