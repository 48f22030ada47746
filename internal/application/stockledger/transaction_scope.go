package stockledger

import (
	"context"

	"github.com/workshophub/backend/internal/domain/catalog"
	"github.com/workshophub/backend/internal/domain/stockledger"
)

// TransactionalRepositories bundles the repositories that take part in
// a single ledger transaction
type TransactionalRepositories struct {
	Products  catalog.ProductRepository
	Movements stockledger.MovementRepository
}

// TransactionScope executes a function within a transaction boundary.
// The quantity update and the movement append either both commit or
// both roll back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope runs the function against the provided
// repositories without a real transaction. Used in tests.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}
