package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/workshophub/backend/internal/domain/audit"
)

// StartImpersonationInput carries a request to impersonate a tenant
// user
type StartImpersonationInput struct {
	AdminID   uuid.UUID
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Reason    string
	ClientIP  string
	UserAgent string
}

// ImpersonationSessionResult is returned when a session starts. The
// token grants tenant-scoped access carrying the impersonator identity.
type ImpersonationSessionResult struct {
	LogID     uuid.UUID `json:"log_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ImpersonationLogResult is the application view of an audit entry
type ImpersonationLogResult struct {
	ID         uuid.UUID  `json:"id"`
	AdminID    uuid.UUID  `json:"admin_id"`
	AdminEmail string     `json:"admin_email"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	TenantName string     `json:"tenant_name"`
	UserID     uuid.UUID  `json:"user_id"`
	UserName   string     `json:"user_name"`
	UserEmail  string     `json:"user_email"`
	Reason     string     `json:"reason,omitempty"`
	ClientIP   string     `json:"client_ip,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	Active     bool       `json:"active"`
}

// NewImpersonationLogResult maps a domain log entry to its view
func NewImpersonationLogResult(log *audit.ImpersonationLog) ImpersonationLogResult {
	return ImpersonationLogResult{
		ID:         log.ID,
		AdminID:    log.AdminID,
		AdminEmail: log.AdminEmail,
		TenantID:   log.TenantID,
		TenantName: log.TenantName,
		UserID:     log.UserID,
		UserName:   log.UserName,
		UserEmail:  log.UserEmail,
		Reason:     log.Reason,
		ClientIP:   log.ClientIP,
		UserAgent:  log.UserAgent,
		StartedAt:  log.StartedAt,
		EndedAt:    log.EndedAt,
		Active:     log.IsActive(),
	}
}
