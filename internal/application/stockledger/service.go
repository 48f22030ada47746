package stockledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/workshophub/backend/internal/domain/catalog"
	"github.com/workshophub/backend/internal/domain/shared"
	"github.com/workshophub/backend/internal/domain/stockledger"
)

// MetricsRecorder receives ledger measurements. Implementations must be
// safe for concurrent use; a nil recorder disables measurement.
type MetricsRecorder interface {
	RecordAdjustment(ctx context.Context, movementType, reason string, quantity int64)
	RecordInsufficientStock(ctx context.Context)
	RecordReconciliationDrift(ctx context.Context, drift int64)
	RecordLowStock(ctx context.Context)
}

// Service coordinates stock adjustments, reconciliation and stock
// queries for the ledger
type Service struct {
	products  catalog.ProductRepository
	movements stockledger.MovementRepository
	txScope   TransactionScope
	publisher shared.EventPublisher
	metrics   MetricsRecorder
	logger    *zap.Logger
}

// NewService creates a stock ledger service. A nil publisher disables
// event publishing.
func NewService(
	products catalog.ProductRepository,
	movements stockledger.MovementRepository,
	txScope TransactionScope,
	publisher shared.EventPublisher,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products:  products,
		movements: movements,
		txScope:   txScope,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// AdjustStock records a stock movement and updates the product's cached
// quantity atomically. The movement's BalanceAfter snapshots the
// quantity after the adjustment, so consecutive movements for a product
// form a running-sum chain.
func (s *Service) AdjustStock(ctx context.Context, input AdjustStockInput) (*MovementResult, error) {
	movementType := stockledger.MovementType(input.MovementType)
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "invalid movement type: "+input.MovementType)
	}
	reason := stockledger.MovementReason(input.Reason)
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "invalid movement reason: "+input.Reason)
	}
	if input.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "movement quantity must be positive")
	}

	var result *MovementResult
	var product *catalog.Product
	var lowStock bool

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.Products.FindByIDForUpdate(ctx, input.TenantID, input.ProductID)
		if err != nil {
			return err
		}

		delta := input.Quantity
		if !movementType.IsInbound() {
			delta = -delta
		}
		if err := product.ApplyQuantityChange(delta); err != nil {
			return err
		}

		movement, err := stockledger.NewStockMovement(
			input.TenantID, input.ProductID,
			movementType, reason,
			input.Quantity, product.StockQuantity,
			input.Notes, input.ActorID,
		)
		if err != nil {
			return err
		}

		if err := repos.Movements.Append(ctx, movement); err != nil {
			return err
		}
		if err := repos.Products.SaveWithLock(ctx, product); err != nil {
			return err
		}

		lowStock = product.IsLowStock()
		product.AddDomainEvent(stockledger.NewStockAdjustedEvent(input.TenantID, movement))
		if lowStock {
			product.AddDomainEvent(stockledger.NewLowStockReachedEvent(
				input.TenantID, product.ID, product.StockQuantity, *product.MinStockLevel))
		}

		movementResult := NewMovementResult(movement)
		result = &movementResult
		return nil
	})
	if err != nil {
		if insufficientErr, ok := asInsufficientStock(err); ok {
			if s.metrics != nil {
				s.metrics.RecordInsufficientStock(ctx)
			}
			s.logger.Info("stock adjustment rejected",
				zap.String("product_id", input.ProductID.String()),
				zap.Int64("available", insufficientErr.Available),
				zap.Int64("requested", insufficientErr.Requested))
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordAdjustment(ctx, input.MovementType, input.Reason, input.Quantity)
	}
	s.logger.Info("stock adjusted",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("product_id", input.ProductID.String()),
		zap.String("movement_type", input.MovementType),
		zap.String("reason", input.Reason),
		zap.Int64("quantity", input.Quantity),
		zap.Int64("balance_after", result.BalanceAfter))

	if lowStock {
		if s.metrics != nil {
			s.metrics.RecordLowStock(ctx)
		}
		s.logger.Warn("product at or below minimum stock level",
			zap.String("tenant_id", input.TenantID.String()),
			zap.String("product_id", input.ProductID.String()),
			zap.Int64("stock_quantity", result.BalanceAfter))
	}

	s.publishDomainEvents(ctx, product)

	return result, nil
}

// Reconcile recomputes a product's cached quantity from its movement
// history and overwrites the cache. No movement row is written; the
// history stays untouched.
func (s *Service) Reconcile(ctx context.Context, tenantID, productID uuid.UUID) (*ReconcileResult, error) {
	var result *ReconcileResult
	var product *catalog.Product

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.Products.FindByIDForUpdate(ctx, tenantID, productID)
		if err != nil {
			return err
		}

		computed, err := repos.Movements.SumSignedQuantity(ctx, tenantID, productID)
		if err != nil {
			return err
		}

		previous := product.StockQuantity
		if err := product.SetStockQuantity(computed); err != nil {
			return err
		}
		if err := repos.Products.SaveWithLock(ctx, product); err != nil {
			return err
		}

		product.AddDomainEvent(stockledger.NewStockReconciledEvent(tenantID, productID, previous, computed))

		result = &ReconcileResult{
			ProductID:       productID,
			PreviousBalance: previous,
			ComputedBalance: computed,
			Drift:           computed - previous,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Drift != 0 {
		if s.metrics != nil {
			s.metrics.RecordReconciliationDrift(ctx, result.Drift)
		}
		s.logger.Warn("stock balance drift corrected",
			zap.String("tenant_id", tenantID.String()),
			zap.String("product_id", productID.String()),
			zap.Int64("previous_balance", result.PreviousBalance),
			zap.Int64("computed_balance", result.ComputedBalance),
			zap.Int64("drift", result.Drift))
	}

	s.publishDomainEvents(ctx, product)

	return result, nil
}

// GetStockStatus returns the current stock state of a product
func (s *Service) GetStockStatus(ctx context.Context, tenantID, productID uuid.UUID) (*StockStatusResult, error) {
	product, err := s.products.FindByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	status := NewStockStatusResult(product)
	return &status, nil
}

// ListMovements returns the movement history of a product, newest first
func (s *Service) ListMovements(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) (shared.Paginated[MovementResult], error) {
	if _, err := s.products.FindByID(ctx, tenantID, productID); err != nil {
		return shared.Paginated[MovementResult]{}, err
	}

	page, err := s.movements.FindByProduct(ctx, tenantID, productID, filter)
	if err != nil {
		return shared.Paginated[MovementResult]{}, err
	}

	results := make([]MovementResult, len(page.Items))
	for i, movement := range page.Items {
		results[i] = NewMovementResult(movement)
	}
	return shared.NewPaginated(results, page.Total, page.Page, page.PageSize), nil
}

// ListLowStock returns products at or below their minimum stock level
func (s *Service) ListLowStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[StockStatusResult], error) {
	page, err := s.products.FindLowStock(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[StockStatusResult]{}, err
	}

	results := make([]StockStatusResult, len(page.Items))
	for i, product := range page.Items {
		results[i] = NewStockStatusResult(product)
	}
	return shared.NewPaginated(results, page.Total, page.Page, page.PageSize), nil
}

// CheckAvailability reports whether the product holds at least the
// requested quantity
func (s *Service) CheckAvailability(ctx context.Context, tenantID, productID uuid.UUID, quantity int64) (bool, error) {
	if quantity <= 0 {
		return false, shared.NewDomainError("INVALID_INPUT", "quantity must be positive")
	}
	product, err := s.products.FindByID(ctx, tenantID, productID)
	if err != nil {
		return false, err
	}
	return product.StockQuantity >= quantity, nil
}

// publishDomainEvents publishes the events raised on the product during
// a committed operation. Publish errors are handled by the bus, not
// propagated; events raised in a rolled-back transaction never reach
// this point.
func (s *Service) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	if s.publisher == nil || product == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}

func asInsufficientStock(err error) (*catalog.InsufficientStockError, bool) {
	var insufficientErr *catalog.InsufficientStockError
	if errors.As(err, &insufficientErr) {
		return insufficientErr, true
	}
	return nil, false
}
