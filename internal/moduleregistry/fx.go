package moduleregistry

import (
	"github.com/std-1224/payper-tenant/internal/moduleregistry/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("moduleregistry",
	fx.Provide(repository.New),
)
