package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/workshophub/backend/internal/domain/shared"
)

// ProductRepository defines the persistence contract for products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	SaveWithLock(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Product], error)
	FindLowStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*Product], error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
