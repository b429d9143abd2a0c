package main

import (
	"context"
	"time"

	"github.com/kbukum/jolt/config"
	"github.com/kbukum/jolt/httpclient"
	"github.com/kbukum/jolt/logger"
	"github.com/kbukum/jolt/observability"
	"github.com/kbukum/jolt/version"
)

// telemetry holds the exporters of one command run.
type telemetry struct {
	options   []httpclient.Option
	shutdowns []func(context.Context) error
	log       *logger.Logger
}

// startTelemetry starts OTLP trace and metric export when an endpoint is
// configured. Without one the httpclient uses the no-op global providers.
func startTelemetry(ctx context.Context, cfg config.ClientConfig, log *logger.Logger) (*telemetry, error) {
	t := &telemetry{log: log}
	if !cfg.Telemetry.Enabled() {
		return t, nil
	}

	tc := observability.DefaultTracerConfig(cfg.Name)
	tc.ServiceVersion = version.Get().Short()
	tc.Environment = "cli"
	tc.Endpoint = cfg.Telemetry.Endpoint
	tc.Insecure = !cfg.Telemetry.Secure
	tc.SampleRate = cfg.Telemetry.SampleRate

	tp, err := observability.InitTracer(ctx, tc)
	if err != nil {
		return nil, err
	}
	t.options = append(t.options, httpclient.WithTracerProvider(tp))
	t.shutdowns = append(t.shutdowns, tp.Shutdown)

	mc := observability.DefaultMeterConfig(cfg.Name)
	mc.ServiceVersion = tc.ServiceVersion
	mc.Environment = tc.Environment
	mc.Endpoint = tc.Endpoint
	mc.Insecure = tc.Insecure
	mc.Interval = cfg.Telemetry.ExportInterval

	mp, err := observability.InitMeter(ctx, mc)
	if err != nil {
		t.shutdown(ctx)
		return nil, err
	}
	t.options = append(t.options, httpclient.WithMeterProvider(mp))
	t.shutdowns = append(t.shutdowns, mp.Shutdown)
	return t, nil
}

// shutdown flushes the exporters. A cancelled ctx still gets a short grace
// period so the spans of an interrupted request are sent.
func (t *telemetry) shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	for _, fn := range t.shutdowns {
		if err := fn(ctx); err != nil {
			t.log.Warn("telemetry shutdown failed", logger.Fields("error", err.Error()))
		}
	}
}
