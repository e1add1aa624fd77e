package metrics

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func newTestMetrics(t *testing.T) (*AppMetrics, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := New(provider.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func TestOrderPlaced(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.OrderPlaced(ctx, decimal.RequireFromString("62.50"), 2)
	m.OrderPlaced(ctx, decimal.RequireFromString("10.00"), 1)

	data := collect(t, reader)
	orders := data["orders_created_total"].(metricdata.Sum[int64])
	require.Len(t, orders.DataPoints, 1)
	assert.Equal(t, int64(2), orders.DataPoints[0].Value)

	items := data["order_items_total"].(metricdata.Sum[int64])
	assert.Equal(t, int64(3), items.DataPoints[0].Value)

	revenue := data["revenue_total"].(metricdata.Sum[float64])
	assert.InDelta(t, 72.5, revenue.DataPoints[0].Value, 0.0001)
}

func TestCheckoutFailed_ByReason(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.CheckoutFailed(ctx, "out_of_stock")
	m.CheckoutFailed(ctx, "out_of_stock")
	m.CheckoutFailed(ctx, "empty_cart")

	failures := collect(t, reader)["checkout_failures_total"].(metricdata.Sum[int64])
	byReason := map[string]int64{}
	for _, dp := range failures.DataPoints {
		reason, _ := dp.Attributes.Value("reason")
		byReason[reason.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"out_of_stock": 2, "empty_cart": 1}, byReason)
}

func TestRecordRequest_CountsErrors(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordRequest(ctx, "GET", "/products", 200, 3)
	m.RecordRequest(ctx, "GET", "/products/:id", 404, 1)

	data := collect(t, reader)
	total := data["http.server.request.count"].(metricdata.Sum[int64])
	assert.Len(t, total.DataPoints, 2)

	errs := data["http.server.request.error.count"].(metricdata.Sum[int64])
	require.Len(t, errs.DataPoints, 1)
	assert.Equal(t, int64(1), errs.DataPoints[0].Value)
}

func TestNoop(t *testing.T) {
	m := Noop()
	require.NotNil(t, m)
	m.OrderPlaced(context.Background(), decimal.NewFromInt(1), 1)
	m.CheckoutFailed(context.Background(), "empty_cart")
}
