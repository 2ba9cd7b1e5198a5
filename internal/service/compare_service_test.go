package service

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"rag-compare-be/internal/entity"
	"rag-compare-be/internal/pkg/logger"
	"rag-compare-be/internal/repository/contract"
	"rag-compare-be/pkg/embedding"
)

// stubEmbedding returns canned vectors keyed by input text, or a fixed error.
type stubEmbedding struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedding) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: s.vectors[text]},
	}, nil
}

func newTestCompareService(t *testing.T, provider embedding.EmbeddingProvider) *compareService {
	t.Helper()
	return &compareService{
		embeddingProvider: provider,
		log:               logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "compare.log")),
	}
}

func TestSessionTitle(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{
			name:   "plain prompt",
			prompt: "What is pgvector?",
			want:   "What is pgvector?",
		},
		{
			name:   "surrounding whitespace trimmed",
			prompt: "  explain HNSW indexes  \n",
			want:   "explain HNSW indexes",
		},
		{
			name:   "empty prompt",
			prompt: "",
			want:   "New comparison",
		},
		{
			name:   "whitespace only",
			prompt: " \t\n ",
			want:   "New comparison",
		},
		{
			name:   "long prompt truncated",
			prompt: strings.Repeat("a", 100),
			want:   strings.Repeat("a", 80) + "...",
		},
		{
			name:   "truncation counts runes not bytes",
			prompt: strings.Repeat("é", 100),
			want:   strings.Repeat("é", 80) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sessionTitle(tt.prompt); got != tt.want {
				t.Errorf("sessionTitle(%q) = %q, want %q", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{
			name: "short text passes through",
			text: "hello",
			max:  10,
			want: "hello",
		},
		{
			name: "exact length passes through",
			text: "hello",
			max:  5,
			want: "hello",
		},
		{
			name: "long text truncated",
			text: "hello world",
			max:  5,
			want: "hello...",
		},
		{
			name: "truncation counts runes not bytes",
			text: "ééééé",
			max:  3,
			want: "ééé...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snippet(tt.text, tt.max); got != tt.want {
				t.Errorf("snippet(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
		})
	}
}

func TestBuildContext(t *testing.T) {
	t.Run("no chunks", func(t *testing.T) {
		if got := buildContext(nil); got != "" {
			t.Errorf("buildContext(nil) = %q, want empty string", got)
		}
	})

	t.Run("numbers chunks and flattens newlines", func(t *testing.T) {
		retrieved := []*contract.ScoredDocumentChunk{
			{
				Chunk:    &entity.DocumentChunk{Content: "line one\nline two", ChunkIndex: 0},
				FileName: "notes.md",
			},
			{
				Chunk:    &entity.DocumentChunk{Content: "second chunk", ChunkIndex: 3},
				FileName: "guide.txt",
			},
		}

		want := "[1] (file: notes.md, chunk: 0) line one line two\n" +
			"[2] (file: guide.txt, chunk: 3) second chunk"
		if got := buildContext(retrieved); got != want {
			t.Errorf("buildContext() = %q, want %q", got, want)
		}
	})
}

func TestAnswerSimilarity(t *testing.T) {
	t.Run("identical embeddings score 1", func(t *testing.T) {
		cs := newTestCompareService(t, &stubEmbedding{vectors: map[string][]float32{
			"same answer": {3, 4},
		}})

		got := cs.answerSimilarity(context.Background(), "same answer", "same answer", nil)
		if math.Abs(got-1.0) > 1e-6 {
			t.Errorf("answerSimilarity = %f, want 1.0", got)
		}
	})

	t.Run("orthogonal embeddings score 0", func(t *testing.T) {
		cs := newTestCompareService(t, &stubEmbedding{vectors: map[string][]float32{
			"baseline answer": {1, 0},
			"rag answer":      {0, 1},
		}})

		got := cs.answerSimilarity(context.Background(), "baseline answer", "rag answer", nil)
		if math.Abs(got) > 1e-6 {
			t.Errorf("answerSimilarity = %f, want 0", got)
		}
	})

	t.Run("embedding failure falls back to best retrieval score", func(t *testing.T) {
		cs := newTestCompareService(t, &stubEmbedding{err: errors.New("provider down")})
		retrieved := []*contract.ScoredDocumentChunk{
			{Chunk: &entity.DocumentChunk{}, Similarity: 0.42},
			{Chunk: &entity.DocumentChunk{}, Similarity: 0.87},
			{Chunk: &entity.DocumentChunk{}, Similarity: 0.13},
		}

		got := cs.answerSimilarity(context.Background(), "a", "b", retrieved)
		if math.Abs(got-0.87) > 1e-9 {
			t.Errorf("answerSimilarity = %f, want 0.87", got)
		}
	})

	t.Run("embedding failure without retrieval scores 0", func(t *testing.T) {
		cs := newTestCompareService(t, &stubEmbedding{err: errors.New("provider down")})

		if got := cs.answerSimilarity(context.Background(), "a", "b", nil); got != 0 {
			t.Errorf("answerSimilarity = %f, want 0", got)
		}
	})
}
