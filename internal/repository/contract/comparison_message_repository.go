package contract

import (
	"context"

	"rag-compare-be/internal/entity"
	"rag-compare-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ComparisonMessageRepository interface {
	Create(ctx context.Context, message *entity.ComparisonMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ComparisonMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	DeleteAll(ctx context.Context) error
}
