package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/workshophub/backend/internal/domain/shared"
)

// ImpersonationLogRepository defines the persistence contract for
// impersonation audit entries
type ImpersonationLogRepository interface {
	Save(ctx context.Context, log *ImpersonationLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*ImpersonationLog, error)
	FindActiveByAdmin(ctx context.Context, adminID uuid.UUID) (*ImpersonationLog, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*ImpersonationLog], error)
}
