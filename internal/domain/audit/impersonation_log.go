package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/workshophub/backend/internal/domain/shared"
)

// ImpersonationLog records a platform admin acting as a tenant user.
// Admin email, tenant name and user name/email are denormalized at
// capture time so the trail stays readable after the referenced records
// change or disappear. EndedAt is nil while the session is active.
type ImpersonationLog struct {
	shared.BaseEntity
	AdminID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	AdminEmail string     `gorm:"size:255;not null"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	TenantName string     `gorm:"size:255;not null"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null"`
	UserName   string     `gorm:"size:255;not null"`
	UserEmail  string     `gorm:"size:255;not null"`
	Reason     string     `gorm:"type:text"`
	ClientIP   string     `gorm:"size:45"`
	UserAgent  string     `gorm:"size:512"`
	StartedAt  time.Time  `gorm:"not null;index"`
	EndedAt    *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (ImpersonationLog) TableName() string {
	return "impersonation_logs"
}

// NewImpersonationLog creates a log entry for a session that is about
// to start
func NewImpersonationLog(
	adminID uuid.UUID, adminEmail string,
	tenantID uuid.UUID, tenantName string,
	userID uuid.UUID, userName, userEmail string,
	reason, clientIP, userAgent string,
) (*ImpersonationLog, error) {
	if adminEmail == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "admin email cannot be empty")
	}
	if tenantName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant name cannot be empty")
	}
	if userName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "user name cannot be empty")
	}
	if userEmail == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "user email cannot be empty")
	}

	return &ImpersonationLog{
		BaseEntity: shared.NewBaseEntity(),
		AdminID:    adminID,
		AdminEmail: adminEmail,
		TenantID:   tenantID,
		TenantName: tenantName,
		UserID:     userID,
		UserName:   userName,
		UserEmail:  userEmail,
		Reason:     reason,
		ClientIP:   clientIP,
		UserAgent:  userAgent,
		StartedAt:  time.Now(),
	}, nil
}

// IsActive reports whether the session has not been closed yet
func (l *ImpersonationLog) IsActive() bool {
	return l.EndedAt == nil
}

// Close marks the session as ended. Closing an already closed session
// is a no-op so that repeated stop requests stay idempotent.
func (l *ImpersonationLog) Close() {
	if l.EndedAt != nil {
		return
	}
	now := time.Now()
	l.EndedAt = &now
	l.MarkUpdated()
}

// Duration returns how long the session lasted, or how long it has
// been running if still active
func (l *ImpersonationLog) Duration() time.Duration {
	if l.EndedAt != nil {
		return l.EndedAt.Sub(l.StartedAt)
	}
	return time.Since(l.StartedAt)
}
