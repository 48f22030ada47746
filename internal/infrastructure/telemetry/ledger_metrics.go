package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"

	appledger "github.com/workshophub/backend/internal/application/stockledger"
)

// LedgerMetrics records stock ledger measurements. It implements the
// ledger application's MetricsRecorder.
type LedgerMetrics struct {
	adjustments       *Counter
	insufficientStock *Counter
	lowStock          *Counter
	reconcileDrift    *Histogram
}

// NewLedgerMetrics creates the ledger metric instruments
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	adjustments, err := NewCounter(meter,
		"stock_adjustments_total",
		"Total number of stock movements recorded",
		"{movement}")
	if err != nil {
		return nil, err
	}

	insufficientStock, err := NewCounter(meter,
		"stock_insufficient_total",
		"Total number of adjustments rejected for insufficient stock",
		"{rejection}")
	if err != nil {
		return nil, err
	}

	lowStock, err := NewCounter(meter,
		"stock_low_level_total",
		"Total number of movements that left a product at or below its threshold",
		"{event}")
	if err != nil {
		return nil, err
	}

	reconcileDrift, err := NewHistogram(meter, HistogramOpts{
		Name:        "stock_reconciliation_drift",
		Description: "Absolute drift corrected by reconciliation",
		Unit:        "{unit}",
		Boundaries:  []float64{1, 2, 5, 10, 25, 50, 100, 500},
	})
	if err != nil {
		return nil, err
	}

	return &LedgerMetrics{
		adjustments:       adjustments,
		insufficientStock: insufficientStock,
		lowStock:          lowStock,
		reconcileDrift:    reconcileDrift,
	}, nil
}

// RecordAdjustment records a committed stock movement
func (m *LedgerMetrics) RecordAdjustment(ctx context.Context, movementType, reason string, quantity int64) {
	m.adjustments.Add(ctx, 1,
		AttrMovementType.String(movementType),
		AttrReason.String(reason),
	)
}

// RecordInsufficientStock records a rejected outbound adjustment
func (m *LedgerMetrics) RecordInsufficientStock(ctx context.Context) {
	m.insufficientStock.Inc(ctx)
}

// RecordLowStock records a movement that reached the low-stock threshold
func (m *LedgerMetrics) RecordLowStock(ctx context.Context) {
	m.lowStock.Inc(ctx)
}

// RecordReconciliationDrift records the magnitude of a corrected drift
func (m *LedgerMetrics) RecordReconciliationDrift(ctx context.Context, drift int64) {
	if drift < 0 {
		drift = -drift
	}
	m.reconcileDrift.Record(ctx, float64(drift))
}

// Ensure LedgerMetrics implements MetricsRecorder
var _ appledger.MetricsRecorder = (*LedgerMetrics)(nil)
