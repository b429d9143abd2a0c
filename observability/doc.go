// Package observability wires OpenTelemetry tracing and metrics for the
// jolt HTTP client.
//
// Exporters (used by the CLI):
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("jolt"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("jolt"))
//	defer mp.Shutdown(ctx)
//
// Client instrumentation (used by httpclient.Network):
//
//	ctx, span := observability.StartClientSpan(ctx, tracer, "GET", url)
//	defer observability.EndClientSpan(span, status, err)
//
//	metrics, err := observability.NewClientMetrics(observability.Meter(observability.InstrumentationName))
//	metrics.RecordRequestEnd(ctx, "GET", "NETWORK", 404, duration)
package observability
