package contract

import (
	"context"

	"rag-compare-be/internal/entity"
	"rag-compare-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ComparisonSessionRepository interface {
	Create(ctx context.Context, session *entity.ComparisonSession) error
	Update(ctx context.Context, session *entity.ComparisonSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteAll soft-deletes every session and reports how many went away.
	DeleteAll(ctx context.Context) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ComparisonSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ComparisonSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
