package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/workshophub/backend/internal/domain/catalog"
	"github.com/workshophub/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	product.IncrementVersion()
	result := r.db.WithContext(ctx).
		Model(product).
		Where("id = ? AND version = ?", product.ID, product.Version-1).
		Updates(map[string]interface{}{
			"name":            product.Name,
			"description":     product.Description,
			"cost_price":      product.CostPrice,
			"sale_price":      product.SalePrice,
			"stock_quantity":  product.StockQuantity,
			"min_stock_level": product.MinStockLevel,
			"active":          product.Active,
			"version":         product.Version,
			"updated_at":      product.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a product by ID within a tenant
func (r *GormProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate finds a product and takes a row lock for the
// duration of the surrounding transaction. Concurrent adjustments to
// the same product serialize on this lock.
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by SKU within a tenant
func (r *GormProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products for a tenant
func (r *GormProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*catalog.Product], error) {
	base := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("tenant_id = ?", tenantID)
	return r.paginate(base, filter)
}

// FindLowStock finds products at or below their minimum stock level.
// Products without a configured threshold are excluded.
func (r *GormProductRepository) FindLowStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[*catalog.Product], error) {
	base := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("tenant_id = ? AND min_stock_level IS NOT NULL AND stock_quantity <= min_stock_level", tenantID)
	return r.paginate(base, filter)
}

// Delete removes a product within a tenant. Movement history is never
// cascaded.
func (r *GormProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// paginate runs the count and page queries for a filtered result
func (r *GormProductRepository) paginate(base *gorm.DB, filter shared.Filter) (shared.Paginated[*catalog.Product], error) {
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[*catalog.Product]{}, err
	}

	query := applyFilter(base.Session(&gorm.Session{}), filter)
	var products []*catalog.Product
	if err := query.Find(&products).Error; err != nil {
		return shared.Paginated[*catalog.Product]{}, err
	}
	return shared.NewPaginated(products, total, filter.Page, filter.PageSize), nil
}

// applyFilter applies pagination and ordering to a query
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
