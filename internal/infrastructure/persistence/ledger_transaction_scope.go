package persistence

import (
	"context"

	"gorm.io/gorm"

	appledger "github.com/workshophub/backend/internal/application/stockledger"
)

// GormTransactionScope implements the ledger TransactionScope using
// GORM transactions. The quantity update and the movement append share
// one transaction; either both commit or both roll back.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// Context cancellation aborts the transaction and rolls it back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(appledger.TransactionalRepositories{
			Products:  NewGormProductRepository(tx),
			Movements: NewGormMovementRepository(tx),
		})
	})
}

// Ensure GormTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormTransactionScope)(nil)
