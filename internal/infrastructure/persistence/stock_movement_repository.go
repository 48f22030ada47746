package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/workshophub/backend/internal/domain/shared"
	"github.com/workshophub/backend/internal/domain/stockledger"
)

// GormMovementRepository implements stockledger.MovementRepository
// using GORM. Rows are insert-only; no update or delete paths exist.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Append inserts a new movement record
func (r *GormMovementRepository) Append(ctx context.Context, movement *stockledger.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByID finds a movement by ID within a tenant
func (r *GormMovementRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*stockledger.StockMovement, error) {
	var movement stockledger.StockMovement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&movement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByProduct finds movements for a product, newest first by default
func (r *GormMovementRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) (shared.Paginated[*stockledger.StockMovement], error) {
	base := r.db.WithContext(ctx).Model(&stockledger.StockMovement{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[*stockledger.StockMovement]{}, err
	}

	query := applyFilter(base.Session(&gorm.Session{}), filter)
	var movements []*stockledger.StockMovement
	if err := query.Find(&movements).Error; err != nil {
		return shared.Paginated[*stockledger.StockMovement]{}, err
	}
	return shared.NewPaginated(movements, total, filter.Page, filter.PageSize), nil
}

// SumSignedQuantity computes the balance implied by the full movement
// history: inbound quantities count positive, outbound negative.
func (r *GormMovementRepository) SumSignedQuantity(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var result struct {
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&stockledger.StockMovement{}).
		Select("COALESCE(SUM(CASE WHEN movement_type = 'in' THEN quantity ELSE -quantity END), 0) as total").
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Total, nil
}

// Ensure GormMovementRepository implements MovementRepository
var _ stockledger.MovementRepository = (*GormMovementRepository)(nil)
