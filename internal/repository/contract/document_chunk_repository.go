package contract

import (
	"context"

	"rag-compare-be/internal/entity"
	"rag-compare-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredDocumentChunk wraps a chunk with its cosine similarity against the
// query and the owning document's file name for display.
type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	FileName   string
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns the closest chunks of ready documents,
	// filtered by a minimum similarity threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredDocumentChunk, error)
}
