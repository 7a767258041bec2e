package onboarding

import (
	"context"
	"time"

	"go.uber.org/fx"
)

func newStore() *Store {
	return NewStore(DefaultDraftTTL)
}

func runSweeper(lc fx.Lifecycle, svc *Service) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go svc.SweepLoop(ctx, 5*time.Minute)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

var Module = fx.Module("onboarding",
	fx.Provide(newStore),
	fx.Provide(NewService),
	fx.Invoke(runSweeper),
)
