package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"rag-compare-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareSendsPromptAndDecodesResult(t *testing.T) {
	var got dto.CompareRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat/compare", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		fmt.Fprint(w, `{
			"success": true,
			"message": "Success compare prompt",
			"data": {
				"session_id": "7b0d9a4e-28cf-4f5b-9a53-0b6f6cbe6f10",
				"prompt": "what is pgvector?",
				"timestamp": "2024-01-02T10:00:00Z",
				"baseline": {"answer": "no idea", "latency_ms": 420.5},
				"rag": {"answer": "a postgres extension", "latency_ms": 910.2, "similarity": 0.91},
				"metrics": {
					"baseline_latency_ms": 420.5,
					"rag_latency_ms": 910.2,
					"semantic_similarity": 0.44,
					"created_at": "2024-01-02T09:00:00Z",
					"updated_at": "2024-01-02T10:00:00Z"
				}
			}
		}`)
	}))
	defer srv.Close()

	res, err := New(srv.URL).Compare(context.Background(), "what is pgvector?", "7b0d9a4e-28cf-4f5b-9a53-0b6f6cbe6f10", 5)
	require.NoError(t, err)

	assert.Equal(t, "what is pgvector?", got.Prompt)
	assert.Equal(t, "7b0d9a4e-28cf-4f5b-9a53-0b6f6cbe6f10", got.SessionId)
	assert.Equal(t, 5, got.TopK)

	assert.Equal(t, "7b0d9a4e-28cf-4f5b-9a53-0b6f6cbe6f10", res.SessionID)
	assert.Equal(t, "no idea", res.Baseline.Answer)
	assert.Equal(t, "a postgres extension", res.RAG.Answer)
	require.NotNil(t, res.RAG.Similarity)
	assert.InDelta(t, 0.91, *res.RAG.Similarity, 1e-9)
	assert.InDelta(t, 0.44, res.Metrics.SemanticSimilarity, 1e-9)
}

func TestListSessionsPreservesServerOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/chat/sessions", r.URL.Path)

		fmt.Fprint(w, `{
			"success": true,
			"message": "Success list sessions",
			"data": [
				{
					"session_id": "b", "title": "newer",
					"created_at": "2024-01-02T09:00:00Z", "updated_at": "2024-01-02T10:00:00Z",
					"message_count": 1,
					"messages": [{
						"prompt": "q", "timestamp": "2024-01-02T10:00:00Z",
						"baseline": {"answer": "a1", "latency_ms": 10},
						"rag": {"answer": "a2", "latency_ms": 20, "similarity": 0.5}
					}],
					"metrics": {"baseline_latency_ms": 10, "rag_latency_ms": 20, "semantic_similarity": 0.7,
						"created_at": "2024-01-02T09:00:00Z", "updated_at": "2024-01-02T10:00:00Z"}
				},
				{
					"session_id": "a", "title": "older",
					"created_at": "2024-01-01T09:00:00Z", "updated_at": "2024-01-01T10:00:00Z",
					"message_count": 0, "messages": [],
					"metrics": {"baseline_latency_ms": 0, "rag_latency_ms": 0, "semantic_similarity": 0,
						"created_at": "2024-01-01T09:00:00Z", "updated_at": "2024-01-01T10:00:00Z"}
				}
			]
		}`)
	}))
	defer srv.Close()

	sessions, err := New(srv.URL).ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, "b", sessions[0].ID)
	assert.Equal(t, "a", sessions[1].ID)
	require.Len(t, sessions[0].Messages, 1)
	assert.Equal(t, "q", sessions[0].Messages[0].Prompt)
	require.NotNil(t, sessions[0].Messages[0].RAG.Similarity)
	assert.InDelta(t, 0.5, *sessions[0].Messages[0].RAG.Similarity, 1e-9)
	assert.Empty(t, sessions[1].Messages)
}

func TestDeleteAllSessionsReturnsCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/chat/sessions", r.URL.Path)
		fmt.Fprint(w, `{"success": true, "message": "Success clear sessions", "data": {"deleted": 3}}`)
	}))
	defer srv.Close()

	deleted, err := New(srv.URL).DeleteAllSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}

func TestErrorsCarryTheServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"success": false, "code": 404, "message": "Session not found"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetSession(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Session not found")
	assert.Contains(t, err.Error(), "404")
}

func TestErrorsFallBackToRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream exploded")
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListDocuments(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestUploadDocumentSendsMultipartFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/documents", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "notes.md", header.Filename)
		assert.Equal(t, "# heading\nbody", string(content))

		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{
			"success": true,
			"message": "Success upload document",
			"data": {"id": "0d4cb71e-8a2e-41f5-b3a3-8f2f6f9a8f11", "file_name": "notes.md", "status": "pending"}
		}`)
	}))
	defer srv.Close()

	res, err := New(srv.URL).UploadDocument(context.Background(), "/tmp/somewhere/notes.md", []byte("# heading\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "notes.md", res.FileName)
	assert.Equal(t, "pending", res.Status)
}
