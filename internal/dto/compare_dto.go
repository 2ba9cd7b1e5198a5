package dto

import (
	"time"

	"github.com/google/uuid"
)

type CompareRequest struct {
	Prompt    string `json:"prompt" validate:"required"`
	SessionId string `json:"session_id"`
	TopK      int    `json:"top_k" validate:"omitempty,min=1,max=20"`
}

// ModeResultResponse is one side of a comparison. Similarity is the mean
// retrieval score behind the answer, so only the RAG side carries it.
type ModeResultResponse struct {
	Answer     string   `json:"answer"`
	LatencyMs  float64  `json:"latency_ms"`
	Similarity *float64 `json:"similarity,omitempty"`
}

type ComparisonMetricsResponse struct {
	BaselineLatencyMs  float64   `json:"baseline_latency_ms"`
	RagLatencyMs       float64   `json:"rag_latency_ms"`
	SemanticSimilarity float64   `json:"semantic_similarity"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type RetrievedChunkResponse struct {
	DocumentId uuid.UUID `json:"document_id"`
	FileName   string    `json:"file_name"`
	ChunkIndex int       `json:"chunk_index"`
	Score      float64   `json:"score"`
	Snippet    string    `json:"snippet"`
}

type CompareResponse struct {
	SessionId string                    `json:"session_id"`
	Prompt    string                    `json:"prompt"`
	Timestamp time.Time                 `json:"timestamp"`
	Baseline  ModeResultResponse        `json:"baseline"`
	Rag       ModeResultResponse        `json:"rag"`
	Metrics   ComparisonMetricsResponse `json:"metrics"`
	Retrieval []RetrievedChunkResponse  `json:"retrieval,omitempty"`
}
