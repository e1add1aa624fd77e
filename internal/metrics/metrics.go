package metrics

import (
	"context"
	"fmt"

	"storefront/internal/config"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// AppMetrics holds the instruments the HTTP layer and checkout record into.
type AppMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestsErrors  metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	OrdersCreated    metric.Int64Counter
	OrderItems       metric.Int64Counter
	RevenueTotal     metric.Float64Counter
	CheckoutFailures metric.Int64Counter
}

// histogram buckets in milliseconds
var durationBuckets = []float64{2, 5, 10, 25, 50, 100, 200, 400, 800, 1000, 2000, 5000, 10000}

// InitMetrics sets up the OTLP exporter and the global meter provider.
// The returned provider must be shut down on exit to flush the last export.
func InitMetrics(ctx context.Context, cfg config.MetricsConfig, env string) (*AppMetrics, *sdkmetric.MeterProvider, error) {
	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("deployment.environment", env),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
	}
	if cfg.OTLPInsecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.ExportInterval))),
	)
	otel.SetMeterProvider(provider)

	m, err := New(provider.Meter(cfg.ServiceName))
	if err != nil {
		return nil, nil, err
	}
	return m, provider, nil
}

// New creates the instruments on meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var (
		m   AppMetrics
		err error
	)

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http requests counter: %w", err)
	}
	if m.HTTPRequestsErrors, err = meter.Int64Counter(
		"http.server.request.error.count",
		metric.WithDescription("Total number of HTTP error requests"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http errors counter: %w", err)
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, fmt.Errorf("failed to create http duration histogram: %w", err)
	}

	if m.OrdersCreated, err = meter.Int64Counter(
		"orders_created_total",
		metric.WithDescription("Total number of orders created"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create orders counter: %w", err)
	}
	if m.OrderItems, err = meter.Int64Counter(
		"order_items_total",
		metric.WithDescription("Total number of order lines created"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create order items counter: %w", err)
	}
	if m.RevenueTotal, err = meter.Float64Counter(
		"revenue_total",
		metric.WithDescription("Total revenue from placed orders"),
		metric.WithUnit("USD"),
	); err != nil {
		return nil, fmt.Errorf("failed to create revenue counter: %w", err)
	}
	if m.CheckoutFailures, err = meter.Int64Counter(
		"checkout_failures_total",
		metric.WithDescription("Checkouts rejected or rolled back"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create checkout failures counter: %w", err)
	}

	return &m, nil
}

// Noop is used when export is disabled.
func Noop() *AppMetrics {
	m, _ := New(noop.NewMeterProvider().Meter("storefront"))
	return m
}

// OrderPlaced implements usecase.CheckoutRecorder.
func (m *AppMetrics) OrderPlaced(ctx context.Context, total decimal.Decimal, items int) {
	m.OrdersCreated.Add(ctx, 1)
	m.OrderItems.Add(ctx, int64(items))
	m.RevenueTotal.Add(ctx, total.InexactFloat64())
}

// CheckoutFailed implements usecase.CheckoutRecorder.
func (m *AppMetrics) CheckoutFailed(ctx context.Context, reason string) {
	m.CheckoutFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordRequest records one served HTTP request.
func (m *AppMetrics) RecordRequest(ctx context.Context, method, route string, status int, ms float64) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	if status >= 400 {
		m.HTTPRequestsErrors.Add(ctx, 1, attrs)
	}
	m.HTTPRequestDuration.Record(ctx, ms, attrs)
}
