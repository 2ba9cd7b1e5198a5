package entity

import (
	"time"

	"github.com/google/uuid"
)

// RetrievedChunk records one piece of context the RAG pipeline grounded an
// answer on. Stored alongside the message so the history can show what the
// model actually saw.
type RetrievedChunk struct {
	DocumentId uuid.UUID `json:"document_id"`
	FileName   string    `json:"file_name"`
	ChunkIndex int       `json:"chunk_index"`
	Score      float64   `json:"score"`
	Snippet    string    `json:"snippet"`
}

type ComparisonMessage struct {
	Id                 uuid.UUID
	SessionId          uuid.UUID
	Prompt             string
	BaselineAnswer     string
	BaselineLatencyMs  float64
	RagAnswer          string
	RagLatencyMs       float64
	SemanticSimilarity float64
	Retrieval          []RetrievedChunk
	CreatedAt          time.Time
	UpdatedAt          *time.Time
	DeletedAt          *time.Time
	IsDeleted          bool
}
