package unitofwork

import (
	"context"

	"rag-compare-be/internal/repository/contract"
)

// RepositoryFactory hands out a fresh UnitOfWork per request.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

// UnitOfWork groups the comparison and document repositories behind one
// optional transaction. Begin is lazy; repositories used before it run
// outside any transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ComparisonSessionRepository() contract.ComparisonSessionRepository
	ComparisonMessageRepository() contract.ComparisonMessageRepository
	DocumentRepository() contract.DocumentRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
}
