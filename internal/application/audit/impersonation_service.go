package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/workshophub/backend/internal/domain/audit"
	"github.com/workshophub/backend/internal/domain/identity"
	"github.com/workshophub/backend/internal/domain/shared"
)

// TokenIssuer mints tenant-scoped credentials that carry the
// impersonator's identity
type TokenIssuer interface {
	IssueImpersonationToken(adminID, tenantID, userID uuid.UUID, userRole string) (token string, expiresAt time.Time, err error)
}

// SessionStore tracks the active impersonation session per admin. It is
// a lookup accelerator only; the audit log remains the source of truth.
type SessionStore interface {
	SetActiveSession(ctx context.Context, adminID, logID uuid.UUID) error
	GetActiveSession(ctx context.Context, adminID uuid.UUID) (uuid.UUID, bool, error)
	ClearActiveSession(ctx context.Context, adminID uuid.UUID) error
}

// ImpersonationService manages impersonation sessions and their audit
// trail
type ImpersonationService struct {
	logs     audit.ImpersonationLogRepository
	admins   identity.PlatformAdminRepository
	tenants  identity.TenantRepository
	users    identity.UserRepository
	tokens   TokenIssuer
	sessions SessionStore
	logger   *zap.Logger
}

// NewImpersonationService creates an impersonation service
func NewImpersonationService(
	logs audit.ImpersonationLogRepository,
	admins identity.PlatformAdminRepository,
	tenants identity.TenantRepository,
	users identity.UserRepository,
	tokens TokenIssuer,
	sessions SessionStore,
	logger *zap.Logger,
) *ImpersonationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImpersonationService{
		logs:     logs,
		admins:   admins,
		tenants:  tenants,
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// StartImpersonation begins a session for an admin acting as a tenant
// user. The audit entry is persisted before any credentials are issued;
// a session without an audit entry cannot exist.
//
// The at-most-one-active-session check below is read-then-write, so two
// concurrent starts for the same admin can both pass it. The window is
// accepted: every session still gets its own audit entry, and the trail
// never loses a grant.
func (s *ImpersonationService) StartImpersonation(ctx context.Context, input StartImpersonationInput) (*ImpersonationSessionResult, error) {
	admin, err := s.admins.FindByID(ctx, input.AdminID)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenants.FindByID(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, input.TenantID, input.UserID)
	if err != nil {
		return nil, err
	}

	existing, err := s.logs.FindActiveByAdmin(ctx, input.AdminID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("INVALID_STATE", "admin already has an active impersonation session")
	}

	log, err := audit.NewImpersonationLog(
		admin.ID, admin.Email,
		tenant.ID, tenant.Name,
		user.ID, user.Name, user.Email,
		input.Reason, input.ClientIP, input.UserAgent,
	)
	if err != nil {
		return nil, err
	}

	if err := s.logs.Save(ctx, log); err != nil {
		s.logger.Error("failed to persist impersonation audit entry",
			zap.String("admin_id", input.AdminID.String()),
			zap.Error(err))
		return nil, err
	}

	token, expiresAt, err := s.tokens.IssueImpersonationToken(admin.ID, tenant.ID, user.ID, string(user.Role))
	if err != nil {
		log.Close()
		if saveErr := s.logs.Save(ctx, log); saveErr != nil {
			s.logger.Error("failed to close audit entry after token failure",
				zap.String("log_id", log.ID.String()),
				zap.Error(saveErr))
		}
		return nil, shared.ErrInternal
	}

	if err := s.sessions.SetActiveSession(ctx, admin.ID, log.ID); err != nil {
		s.logger.Warn("failed to record session pointer, stop will fall back to the audit log",
			zap.String("admin_id", admin.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("impersonation started",
		zap.String("log_id", log.ID.String()),
		zap.String("admin_email", admin.Email),
		zap.String("tenant_name", tenant.Name),
		zap.String("user_name", user.Name))

	return &ImpersonationSessionResult{
		LogID:     log.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// StopImpersonation closes the admin's active session. Stopping when no
// session is active, or when it was already closed, succeeds without
// effect.
func (s *ImpersonationService) StopImpersonation(ctx context.Context, adminID uuid.UUID) error {
	log, err := s.findActiveLog(ctx, adminID)
	if err != nil {
		return err
	}
	if log == nil {
		return nil
	}
	if !log.IsActive() {
		s.clearSessionPointer(ctx, adminID)
		return nil
	}

	log.Close()
	if err := s.logs.Save(ctx, log); err != nil {
		return err
	}
	s.clearSessionPointer(ctx, adminID)

	s.logger.Info("impersonation stopped",
		zap.String("log_id", log.ID.String()),
		zap.String("admin_id", adminID.String()),
		zap.Duration("duration", log.Duration()))
	return nil
}

// IsImpersonating reports whether the admin currently has an active
// session
func (s *ImpersonationService) IsImpersonating(ctx context.Context, adminID uuid.UUID) (bool, error) {
	log, err := s.findActiveLog(ctx, adminID)
	if err != nil {
		return false, err
	}
	return log != nil && log.IsActive(), nil
}

// GetPaginatedLogs returns the audit trail ordered by start time,
// newest first
func (s *ImpersonationService) GetPaginatedLogs(ctx context.Context, filter shared.Filter) (shared.Paginated[ImpersonationLogResult], error) {
	filter.OrderBy = "started_at"
	filter.OrderDir = "desc"

	page, err := s.logs.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ImpersonationLogResult]{}, err
	}

	results := make([]ImpersonationLogResult, len(page.Items))
	for i, log := range page.Items {
		results[i] = NewImpersonationLogResult(log)
	}
	return shared.NewPaginated(results, page.Total, page.Page, page.PageSize), nil
}

// findActiveLog resolves the admin's active session, preferring the
// session pointer and falling back to the audit log
func (s *ImpersonationService) findActiveLog(ctx context.Context, adminID uuid.UUID) (*audit.ImpersonationLog, error) {
	if logID, ok, err := s.sessions.GetActiveSession(ctx, adminID); err == nil && ok {
		log, err := s.logs.FindByID(ctx, logID)
		if err == nil {
			return log, nil
		}
	}

	log, err := s.logs.FindActiveByAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return log, nil
}

func (s *ImpersonationService) clearSessionPointer(ctx context.Context, adminID uuid.UUID) {
	if err := s.sessions.ClearActiveSession(ctx, adminID); err != nil {
		s.logger.Warn("failed to clear session pointer",
			zap.String("admin_id", adminID.String()),
			zap.Error(err))
	}
}
