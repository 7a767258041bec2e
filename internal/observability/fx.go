// Package observability wires tracing and metrics providers.
package observability

import (
	"github.com/std-1224/payper-tenant/internal/observability/metrics"
	"github.com/std-1224/payper-tenant/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		tracing.NewProvider,
		metrics.NewHTTPMetrics,
	),
	fx.Invoke(ensureTracingProvider),
)

func ensureTracingProvider(_ *sdktrace.TracerProvider) {}
