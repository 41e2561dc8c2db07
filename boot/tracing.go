package boot

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/go-lynx/asphalt/log"
)

// TracingConfig configures span export. Tracing is off when Endpoint is empty.
type TracingConfig struct {
	Endpoint string  `json:"endpoint"`
	Insecure bool    `json:"insecure"`
	Ratio    float64 `json:"ratio"`
}

// InitTracing installs a global tracer provider exporting to the OTLP gRPC
// endpoint from "asphalt.tracing". Without an endpoint it does nothing.
func (app *Application) InitTracing(ctx context.Context) error {
	var tc TracingConfig
	if err := scanOptional(app.conf, keyTracing, &tc); err != nil {
		return err
	}
	if tc.Endpoint == "" {
		log.Debugf("tracing disabled: no %s.endpoint configured", keyTracing)
		return nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(tc.Endpoint)}
	if tc.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	tp := newTracerProvider(app.GetName(), app.GetVersion(), tc.Ratio, sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	app.cleanups = append(app.cleanups, func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			log.Errorf("failed to shut down tracer provider: %v", err)
		}
	})
	log.Infof("tracing enabled, exporting to %s", tc.Endpoint)
	return nil
}

func newTracerProvider(name, version string, ratio float64, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	if ratio <= 0 || ratio > 1 {
		if ratio != 0 {
			log.Warnf("tracing ratio %v outside (0, 1], sampling every trace", ratio)
		}
		ratio = 1
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", name),
		attribute.String("service.version", version),
	)
	opts = append(opts,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	return sdktrace.NewTracerProvider(opts...)
}
