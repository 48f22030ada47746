package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/workshophub/backend/internal/domain/audit"
	"github.com/workshophub/backend/internal/domain/shared"
)

// GormImpersonationLogRepository implements
// audit.ImpersonationLogRepository using GORM
type GormImpersonationLogRepository struct {
	db *gorm.DB
}

// NewGormImpersonationLogRepository creates a new GormImpersonationLogRepository
func NewGormImpersonationLogRepository(db *gorm.DB) *GormImpersonationLogRepository {
	return &GormImpersonationLogRepository{db: db}
}

// Save creates or updates an impersonation log entry
func (r *GormImpersonationLogRepository) Save(ctx context.Context, log *audit.ImpersonationLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

// FindByID finds a log entry by ID
func (r *GormImpersonationLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.ImpersonationLog, error) {
	var log audit.ImpersonationLog
	if err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// FindActiveByAdmin finds the admin's open session, if one exists. When
// multiple are open the most recently started wins.
func (r *GormImpersonationLogRepository) FindActiveByAdmin(ctx context.Context, adminID uuid.UUID) (*audit.ImpersonationLog, error) {
	var log audit.ImpersonationLog
	if err := r.db.WithContext(ctx).
		Where("admin_id = ? AND ended_at IS NULL", adminID).
		Order("started_at DESC").
		First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// FindAll returns log entries, newest first
func (r *GormImpersonationLogRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*audit.ImpersonationLog], error) {
	base := r.db.WithContext(ctx).Model(&audit.ImpersonationLog{})

	if adminID, ok := filter.Filters["admin_id"]; ok {
		base = base.Where("admin_id = ?", adminID)
	}
	if tenantID, ok := filter.Filters["tenant_id"]; ok {
		base = base.Where("tenant_id = ?", tenantID)
	}
	if active, ok := filter.Filters["active"]; ok {
		if active == true {
			base = base.Where("ended_at IS NULL")
		} else {
			base = base.Where("ended_at IS NOT NULL")
		}
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[*audit.ImpersonationLog]{}, err
	}

	query := applyFilter(base.Session(&gorm.Session{}), filter)
	var logs []*audit.ImpersonationLog
	if err := query.Find(&logs).Error; err != nil {
		return shared.Paginated[*audit.ImpersonationLog]{}, err
	}
	return shared.NewPaginated(logs, total, filter.Page, filter.PageSize), nil
}

// Ensure GormImpersonationLogRepository implements ImpersonationLogRepository
var _ audit.ImpersonationLogRepository = (*GormImpersonationLogRepository)(nil)
