package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings.
// taskType is a retrieval hint ("RETRIEVAL_QUERY", "RETRIEVAL_DOCUMENT",
// "SEMANTIC_SIMILARITY"); providers that take no such hint ignore it.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

// EmbeddingResponse carries the generated vector. The JSON shape mirrors
// the Gemini embedContent response.
type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}
