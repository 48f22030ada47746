package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func TestNewLedgerMetrics(t *testing.T) {
	meter := otel.GetMeterProvider().Meter("test")

	metrics, err := NewLedgerMetrics(meter)
	require.NoError(t, err)
	assert.NotNil(t, metrics)

	// Recording through the no-op provider must not panic
	ctx := context.Background()
	metrics.RecordAdjustment(ctx, "in", "purchase", 5)
	metrics.RecordInsufficientStock(ctx)
	metrics.RecordLowStock(ctx)
	metrics.RecordReconciliationDrift(ctx, -3)
}

func TestMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NoError(t, mp.Shutdown(context.Background()))
}
