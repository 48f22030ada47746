package stockledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/workshophub/backend/internal/domain/shared"
)

// MovementRepository is the append-only persistence contract for stock
// movements. Movements are never updated or deleted once written.
type MovementRepository interface {
	Append(ctx context.Context, movement *StockMovement) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*StockMovement, error)
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) (shared.Paginated[*StockMovement], error)
	SumSignedQuantity(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)
}
