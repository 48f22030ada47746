package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/workshophub/backend/internal/domain/audit"
	"github.com/workshophub/backend/internal/domain/identity"
	"github.com/workshophub/backend/internal/domain/shared"
)

// MockLogRepository is a mock implementation of audit.ImpersonationLogRepository
type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) Save(ctx context.Context, log *audit.ImpersonationLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.ImpersonationLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.ImpersonationLog), args.Error(1)
}

func (m *MockLogRepository) FindActiveByAdmin(ctx context.Context, adminID uuid.UUID) (*audit.ImpersonationLog, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.ImpersonationLog), args.Error(1)
}

func (m *MockLogRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*audit.ImpersonationLog], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*audit.ImpersonationLog]), args.Error(1)
}

// MockAdminRepository is a mock implementation of identity.PlatformAdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Save(ctx context.Context, admin *identity.PlatformAdmin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.PlatformAdmin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.PlatformAdmin), args.Error(1)
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (*identity.PlatformAdmin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.PlatformAdmin), args.Error(1)
}

// MockTenantRepository is a mock implementation of identity.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindBySlug(ctx context.Context, slug string) (*identity.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) IssueImpersonationToken(adminID, tenantID, userID uuid.UUID, userRole string) (string, time.Time, error) {
	args := m.Called(adminID, tenantID, userID, userRole)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// memorySessionStore is an in-memory SessionStore for tests
type memorySessionStore struct {
	sessions map[uuid.UUID]uuid.UUID
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[uuid.UUID]uuid.UUID)}
}

func (s *memorySessionStore) SetActiveSession(_ context.Context, adminID, logID uuid.UUID) error {
	s.sessions[adminID] = logID
	return nil
}

func (s *memorySessionStore) GetActiveSession(_ context.Context, adminID uuid.UUID) (uuid.UUID, bool, error) {
	logID, ok := s.sessions[adminID]
	return logID, ok, nil
}

func (s *memorySessionStore) ClearActiveSession(_ context.Context, adminID uuid.UUID) error {
	delete(s.sessions, adminID)
	return nil
}

type impersonationFixture struct {
	logs     *MockLogRepository
	admins   *MockAdminRepository
	tenants  *MockTenantRepository
	users    *MockUserRepository
	tokens   *MockTokenIssuer
	sessions *memorySessionStore
	service  *ImpersonationService

	admin  *identity.PlatformAdmin
	tenant *identity.Tenant
	user   *identity.User
}

func newImpersonationFixture(t *testing.T) *impersonationFixture {
	t.Helper()

	tenant, err := identity.NewTenant("Joe's Garage", "joes-garage")
	require.NoError(t, err)
	user, err := identity.NewUser(tenant.ID, "Joe Smith", "joe@joes-garage.io", identity.RoleOwner)
	require.NoError(t, err)
	admin := &identity.PlatformAdmin{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              "Pat Admin",
		Email:             "pat@platform.io",
		Active:            true,
	}

	f := &impersonationFixture{
		logs:     new(MockLogRepository),
		admins:   new(MockAdminRepository),
		tenants:  new(MockTenantRepository),
		users:    new(MockUserRepository),
		tokens:   new(MockTokenIssuer),
		sessions: newMemorySessionStore(),
		admin:    admin,
		tenant:   tenant,
		user:     user,
	}
	f.service = NewImpersonationService(
		f.logs, f.admins, f.tenants, f.users, f.tokens, f.sessions, zap.NewNop())
	return f
}

func (f *impersonationFixture) expectLookups() {
	f.admins.On("FindByID", mock.Anything, f.admin.ID).Return(f.admin, nil)
	f.tenants.On("FindByID", mock.Anything, f.tenant.ID).Return(f.tenant, nil)
	f.users.On("FindByID", mock.Anything, f.tenant.ID, f.user.ID).Return(f.user, nil)
}

func (f *impersonationFixture) startInput() StartImpersonationInput {
	return StartImpersonationInput{
		AdminID:   f.admin.ID,
		TenantID:  f.tenant.ID,
		UserID:    f.user.ID,
		Reason:    "support ticket 4821",
		ClientIP:  "203.0.113.7",
		UserAgent: "Mozilla/5.0",
	}
}

func TestImpersonationService_Start(t *testing.T) {
	t.Run("persists audit entry before issuing credentials", func(t *testing.T) {
		f := newImpersonationFixture(t)
		f.expectLookups()
		f.logs.On("FindActiveByAdmin", mock.Anything, f.admin.ID).Return(nil, shared.ErrNotFound)

		var callOrder []string
		f.logs.On("Save", mock.Anything, mock.AnythingOfType("*audit.ImpersonationLog")).
			Run(func(mock.Arguments) { callOrder = append(callOrder, "audit") }).Return(nil)

		expiresAt := time.Now().Add(time.Hour)
		f.tokens.On("IssueImpersonationToken", f.admin.ID, f.tenant.ID, f.user.ID, "owner").
			Run(func(mock.Arguments) { callOrder = append(callOrder, "token") }).
			Return("signed-token", expiresAt, nil)

		result, err := f.service.StartImpersonation(context.Background(), f.startInput())

		require.NoError(t, err)
		assert.Equal(t, []string{"audit", "token"}, callOrder)
		assert.Equal(t, "signed-token", result.Token)
		assert.Equal(t, expiresAt, result.ExpiresAt)

		logID, ok, _ := f.sessions.GetActiveSession(context.Background(), f.admin.ID)
		assert.True(t, ok)
		assert.Equal(t, result.LogID, logID)
	})

	t.Run("snapshots identity fields on the audit entry", func(t *testing.T) {
		f := newImpersonationFixture(t)
		f.expectLookups()
		f.logs.On("FindActiveByAdmin", mock.Anything, f.admin.ID).Return(nil, shared.ErrNotFound)

		var saved *audit.ImpersonationLog
		f.logs.On("Save", mock.Anything, mock.AnythingOfType("*audit.ImpersonationLog")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*audit.ImpersonationLog)
			}).Return(nil)
		f.tokens.On("IssueImpersonationToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("signed-token", time.Now().Add(time.Hour), nil)

		_, err := f.service.StartImpersonation(context.Background(), f.startInput())

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "pat@platform.io", saved.AdminEmail)
		assert.Equal(t, "Joe's Garage", saved.TenantName)
		assert.Equal(t, "Joe Smith", saved.UserName)
		assert.Equal(t, "joe@joes-garage.io", saved.UserEmail)
		assert.Equal(t, "203.0.113.7", saved.ClientIP)
		assert.Equal(t, "Mozilla/5.0", saved.UserAgent)
		assert.Nil(t, saved.EndedAt)
	})

	t.Run("admin not found", func(t *testing.T) {
		f := newImpersonationFixture(t)
		f.admins.On("FindByID", mock.Anything, f.admin.ID).Return(nil, shared.ErrNotFound)

		_, err := f.service.StartImpersonation(context.Background(), f.startInput())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.logs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("target user not found", func(t *testing.T) {
		f := newImpersonationFixture(t)
		f.admins.On("FindByID", mock.Anything, f.admin.ID).Return(f.admin, nil)
		f.tenants.On("FindByID", mock.Anything, f.tenant.ID).Return(f.tenant, nil)
		f.users.On("FindByID", mock.Anything, f.tenant.ID, f.user.ID).Return(nil, shared.ErrNotFound)

		_, err := f.service.StartImpersonation(context.Background(), f.startInput())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.logs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("active-session lookup failure blocks the start", func(t *testing.T) {
		f := newImpersonationFixture(t)
		f.expectLookups()
		f.logs.On("FindActiveByAdmin", mock.Anything, f.admin.ID).Return(nil, shared.ErrInternal)

		_, err := f.service.StartImpersonation(context.Background(), f.startInput())

		assert.ErrorIs(t, err, shared.ErrInternal)
		f.logs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.tokens.AssertNotCalled(t, "IssueImpersonationToken",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("audit write failure blocks the grant", func(t *testing.T) {
		f := newImpersonationFixture(t)
		f.expectLookups()
		f.logs.On("FindActiveByAdmin", mock.Anything, f.admin.ID).Return(nil, shared.ErrNotFound)
		f.logs.On("Save", mock.Anything, mock.AnythingOfType("*audit.ImpersonationLog")).
			Return(shared.ErrInternal)

		_, err := f.service.StartImpersonation(context.Background(), f.startInput())

		require.Error(t, err)
		f.tokens.AssertNotCalled(t, "IssueImpersonationToken",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("token failure closes the audit entry", func(t *testing.T) {
		f := newImpersonationFixture(t)
		f.expectLookups()
		f.logs.On("FindActiveByAdmin", mock.Anything, f.admin.ID).Return(nil, shared.ErrNotFound)

		var saved *audit.ImpersonationLog
		f.logs.On("Save", mock.Anything, mock.AnythingOfType("*audit.ImpersonationLog")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*audit.ImpersonationLog)
			}).Return(nil)
		f.tokens.On("IssueImpersonationToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", time.Time{}, shared.ErrInternal)

		_, err := f.service.StartImpersonation(context.Background(), f.startInput())

		require.Error(t, err)
		require.NotNil(t, saved)
		assert.NotNil(t, saved.EndedAt)
	})

	t.Run("rejects start while a session is active", func(t *testing.T) {
		f := newImpersonationFixture(t)
		f.expectLookups()
		active, err := audit.NewImpersonationLog(f.admin.ID, f.admin.Email,
			f.tenant.ID, f.tenant.Name,
			f.user.ID, f.user.Name, f.user.Email, "", "", "")
		require.NoError(t, err)
		f.logs.On("FindActiveByAdmin", mock.Anything, f.admin.ID).Return(active, nil)

		_, err = f.service.StartImpersonation(context.Background(), f.startInput())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		f.logs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	// The active-session check is read-then-write. Two starts whose
	// checks interleave both pass and both get audit entries. This test
	// pins that behavior: no session exists without an audit entry, but
	// uniqueness of active sessions is not guaranteed under concurrency.
	t.Run("interleaved starts each produce an audit entry", func(t *testing.T) {
		f := newImpersonationFixture(t)
		f.expectLookups()
		f.logs.On("FindActiveByAdmin", mock.Anything, f.admin.ID).Return(nil, shared.ErrNotFound)

		var savedCount int
		f.logs.On("Save", mock.Anything, mock.AnythingOfType("*audit.ImpersonationLog")).
			Run(func(mock.Arguments) { savedCount++ }).Return(nil)
		f.tokens.On("IssueImpersonationToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("signed-token", time.Now().Add(time.Hour), nil)

		first, err := f.service.StartImpersonation(context.Background(), f.startInput())
		require.NoError(t, err)
		second, err := f.service.StartImpersonation(context.Background(), f.startInput())
		require.NoError(t, err)

		assert.Equal(t, 2, savedCount)
		assert.NotEqual(t, first.LogID, second.LogID)
	})
}

func TestImpersonationService_Stop(t *testing.T) {
	t.Run("closes the active session", func(t *testing.T) {
		f := newImpersonationFixture(t)
		active, err := audit.NewImpersonationLog(f.admin.ID, f.admin.Email,
			f.tenant.ID, f.tenant.Name,
			f.user.ID, f.user.Name, f.user.Email, "", "", "")
		require.NoError(t, err)
		require.NoError(t, f.sessions.SetActiveSession(context.Background(), f.admin.ID, active.ID))

		f.logs.On("FindByID", mock.Anything, active.ID).Return(active, nil)
		f.logs.On("Save", mock.Anything, active).Return(nil)

		err = f.service.StopImpersonation(context.Background(), f.admin.ID)

		require.NoError(t, err)
		assert.NotNil(t, active.EndedAt)
		_, ok, _ := f.sessions.GetActiveSession(context.Background(), f.admin.ID)
		assert.False(t, ok)
	})

	t.Run("no active session is a no-op", func(t *testing.T) {
		f := newImpersonationFixture(t)
		f.logs.On("FindActiveByAdmin", mock.Anything, f.admin.ID).Return(nil, shared.ErrNotFound)

		err := f.service.StopImpersonation(context.Background(), f.admin.ID)

		require.NoError(t, err)
		f.logs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("already closed session is a no-op", func(t *testing.T) {
		f := newImpersonationFixture(t)
		closed, err := audit.NewImpersonationLog(f.admin.ID, f.admin.Email,
			f.tenant.ID, f.tenant.Name,
			f.user.ID, f.user.Name, f.user.Email, "", "", "")
		require.NoError(t, err)
		closed.Close()
		firstEnd := *closed.EndedAt
		require.NoError(t, f.sessions.SetActiveSession(context.Background(), f.admin.ID, closed.ID))

		f.logs.On("FindByID", mock.Anything, closed.ID).Return(closed, nil)

		err = f.service.StopImpersonation(context.Background(), f.admin.ID)

		require.NoError(t, err)
		assert.Equal(t, firstEnd, *closed.EndedAt)
		f.logs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("falls back to the audit log when pointer is missing", func(t *testing.T) {
		f := newImpersonationFixture(t)
		active, err := audit.NewImpersonationLog(f.admin.ID, f.admin.Email,
			f.tenant.ID, f.tenant.Name,
			f.user.ID, f.user.Name, f.user.Email, "", "", "")
		require.NoError(t, err)

		f.logs.On("FindActiveByAdmin", mock.Anything, f.admin.ID).Return(active, nil)
		f.logs.On("Save", mock.Anything, active).Return(nil)

		err = f.service.StopImpersonation(context.Background(), f.admin.ID)

		require.NoError(t, err)
		assert.NotNil(t, active.EndedAt)
	})

	t.Run("save failure propagates", func(t *testing.T) {
		f := newImpersonationFixture(t)
		active, err := audit.NewImpersonationLog(f.admin.ID, f.admin.Email,
			f.tenant.ID, f.tenant.Name,
			f.user.ID, f.user.Name, f.user.Email, "", "", "")
		require.NoError(t, err)

		f.logs.On("FindActiveByAdmin", mock.Anything, f.admin.ID).Return(active, nil)
		f.logs.On("Save", mock.Anything, active).Return(shared.ErrInternal)

		err = f.service.StopImpersonation(context.Background(), f.admin.ID)
		assert.Error(t, err)
	})
}

func TestImpersonationService_IsImpersonating(t *testing.T) {
	f := newImpersonationFixture(t)
	active, err := audit.NewImpersonationLog(f.admin.ID, f.admin.Email,
		f.tenant.ID, f.tenant.Name,
		f.user.ID, f.user.Name, f.user.Email, "", "", "")
	require.NoError(t, err)

	f.logs.On("FindActiveByAdmin", mock.Anything, f.admin.ID).Return(active, nil)

	impersonating, err := f.service.IsImpersonating(context.Background(), f.admin.ID)
	require.NoError(t, err)
	assert.True(t, impersonating)

	other := uuid.New()
	f.logs.On("FindActiveByAdmin", mock.Anything, other).Return(nil, shared.ErrNotFound)

	impersonating, err = f.service.IsImpersonating(context.Background(), other)
	require.NoError(t, err)
	assert.False(t, impersonating)
}

func TestImpersonationService_GetPaginatedLogs(t *testing.T) {
	f := newImpersonationFixture(t)

	first, err := audit.NewImpersonationLog(f.admin.ID, f.admin.Email,
		f.tenant.ID, f.tenant.Name,
		f.user.ID, f.user.Name, f.user.Email, "", "", "")
	require.NoError(t, err)
	first.StartedAt = time.Now().Add(-time.Hour)
	second, err := audit.NewImpersonationLog(f.admin.ID, f.admin.Email,
		f.tenant.ID, f.tenant.Name,
		f.user.ID, f.user.Name, f.user.Email, "", "", "")
	require.NoError(t, err)

	f.logs.On("FindAll", mock.Anything, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.OrderBy == "started_at" && filter.OrderDir == "desc"
	})).Return(shared.NewPaginated([]*audit.ImpersonationLog{second, first}, 2, 1, 20), nil)

	page, err := f.service.GetPaginatedLogs(context.Background(), shared.DefaultFilter())

	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.ID, page.Items[0].ID)
	assert.True(t, page.Items[0].StartedAt.After(page.Items[1].StartedAt))
}
