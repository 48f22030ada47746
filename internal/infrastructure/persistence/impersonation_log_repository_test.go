package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/workshophub/backend/internal/domain/shared"
)

// newMockImpersonationLogRepository creates a GormImpersonationLogRepository with a mocked SQL connection
func newMockImpersonationLogRepository(t *testing.T) (*GormImpersonationLogRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormImpersonationLogRepository(gormDB), mock, mockDB
}

func impersonationLogRows(logID, adminID uuid.UUID, endedAt *time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "admin_id", "admin_email", "tenant_id", "tenant_name",
		"user_id", "user_name", "user_email", "reason",
		"client_ip", "user_agent", "started_at", "ended_at",
	}).AddRow(
		logID, adminID, "pat@platform.io", uuid.New(), "Joe's Garage",
		uuid.New(), "Joe Smith", "joe@joes-garage.io", "support ticket",
		"203.0.113.7", "Mozilla/5.0", time.Now(), endedAt,
	)
}

func TestGormImpersonationLogRepository_FindActiveByAdmin(t *testing.T) {
	t.Run("finds open session", func(t *testing.T) {
		repo, mock, mockDB := newMockImpersonationLogRepository(t)
		defer mockDB.Close()

		logID := uuid.New()
		adminID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "impersonation_logs" WHERE admin_id = \$1 AND ended_at IS NULL`).
			WithArgs(adminID, 1).
			WillReturnRows(impersonationLogRows(logID, adminID, nil))

		log, err := repo.FindActiveByAdmin(context.Background(), adminID)

		assert.NoError(t, err)
		require.NotNil(t, log)
		assert.Equal(t, logID, log.ID)
		assert.True(t, log.IsActive())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no session is open", func(t *testing.T) {
		repo, mock, mockDB := newMockImpersonationLogRepository(t)
		defer mockDB.Close()

		adminID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "impersonation_logs" WHERE admin_id = \$1 AND ended_at IS NULL`).
			WithArgs(adminID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		log, err := repo.FindActiveByAdmin(context.Background(), adminID)

		assert.Nil(t, log)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormImpersonationLogRepository_FindAll(t *testing.T) {
	repo, mock, mockDB := newMockImpersonationLogRepository(t)
	defer mockDB.Close()

	logID := uuid.New()
	adminID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "impersonation_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT \* FROM "impersonation_logs" ORDER BY started_at DESC`).
		WithArgs(20).
		WillReturnRows(impersonationLogRows(logID, adminID, nil))

	filter := shared.DefaultFilter()
	filter.OrderBy = "started_at"
	filter.OrderDir = "desc"

	page, err := repo.FindAll(context.Background(), filter)

	assert.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, logID, page.Items[0].ID)
	assert.Equal(t, int64(1), page.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
