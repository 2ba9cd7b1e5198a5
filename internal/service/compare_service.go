package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"rag-compare-be/internal/dto"
	"rag-compare-be/internal/entity"
	"rag-compare-be/internal/pkg/logger"
	"rag-compare-be/internal/repository/contract"
	"rag-compare-be/internal/repository/memory"
	"rag-compare-be/internal/repository/specification"
	"rag-compare-be/internal/repository/unitofwork"
	"rag-compare-be/pkg/embedding"
	"rag-compare-be/pkg/events"
	"rag-compare-be/pkg/llm"
	"rag-compare-be/pkg/metrics"
	pktNats "rag-compare-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	baselineSystemPrompt = "You are a careful teaching assistant. Answer user questions truthfully based on your general knowledge. If unsure, say so."
	ragSystemPrompt      = "You are a retrieval-augmented assistant. Use ONLY the provided context to answer. If the context lacks the answer, state that clearly and do not fabricate details."

	baselineTemperature = 0.2
	ragTemperature      = 0.1

	maxTopK         = 20
	titleMaxRunes   = 80
	snippetMaxRunes = 200
)

// ICompareService runs the same prompt through the plain and the
// retrieval-augmented pipeline and persists the side-by-side result.
type ICompareService interface {
	Compare(ctx context.Context, req *dto.CompareRequest) (*dto.CompareResponse, error)
}

type compareService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	llmProvider       llm.LLMProvider
	sessionCache      *memory.SessionCache
	eventPublisher    *pktNats.Publisher
	defaultTopK       int
	log               logger.ILogger
}

func NewCompareService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	sessionCache *memory.SessionCache,
	eventPublisher *pktNats.Publisher,
	defaultTopK int,
	log logger.ILogger,
) ICompareService {
	return &compareService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		sessionCache:      sessionCache,
		eventPublisher:    eventPublisher,
		defaultTopK:       defaultTopK,
		log:               log,
	}
}

type pipelineResult struct {
	answer    string
	latencyMs float64
}

func (cs *compareService) Compare(ctx context.Context, req *dto.CompareRequest) (*dto.CompareResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = cs.defaultTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}

	// Both pipelines run concurrently so their latencies are measured under
	// the same conditions.
	var (
		wg          sync.WaitGroup
		baseline    pipelineResult
		baselineErr error
		rag         pipelineResult
		retrieved   []*contract.ScoredDocumentChunk
		ragErr      error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		baseline, baselineErr = cs.runBaseline(ctx, req.Prompt)
	}()
	go func() {
		defer wg.Done()
		rag, retrieved, ragErr = cs.runRag(ctx, req.Prompt, topK)
	}()
	wg.Wait()

	if baselineErr != nil {
		return nil, fmt.Errorf("baseline pipeline: %w", baselineErr)
	}
	if ragErr != nil {
		return nil, fmt.Errorf("rag pipeline: %w", ragErr)
	}

	similarity := cs.answerSimilarity(ctx, baseline.answer, rag.answer, retrieved)

	// The RAG block carries the mean retrieval score; how close the two
	// answers landed is a session-level metric.
	retrievalScores := make([]float64, len(retrieved))
	for i, sc := range retrieved {
		retrievalScores[i] = sc.Similarity
	}
	ragScore := metrics.AverageScore(retrievalScores)

	ts := time.Now().UTC()

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	var sess *entity.ComparisonSession
	createSession := false
	if req.SessionId != "" {
		if id, parseErr := uuid.Parse(req.SessionId); parseErr == nil {
			found, findErr := uow.ComparisonSessionRepository().FindOne(ctx, specification.ByID{ID: id})
			if findErr != nil {
				return nil, findErr
			}
			if found != nil {
				sess = found
			} else {
				// Unknown ids are honored so clients can mint their own.
				sess = newComparisonSession(id, req.Prompt, ts)
				createSession = true
			}
		}
	}
	if sess == nil {
		sess = newComparisonSession(uuid.New(), req.Prompt, ts)
		createSession = true
	}

	// The session-level metrics always reflect the latest message.
	sess.BaselineLatencyMs = baseline.latencyMs
	sess.RagLatencyMs = rag.latencyMs
	sess.SemanticSimilarity = similarity
	sess.UpdatedAt = &ts

	msg := &entity.ComparisonMessage{
		Id:                 uuid.New(),
		SessionId:          sess.Id,
		Prompt:             req.Prompt,
		BaselineAnswer:     baseline.answer,
		BaselineLatencyMs:  baseline.latencyMs,
		RagAnswer:          rag.answer,
		RagLatencyMs:       rag.latencyMs,
		SemanticSimilarity: similarity,
		Retrieval:          retrievalEntities(retrieved),
		CreatedAt:          ts,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if createSession {
		if err := uow.ComparisonSessionRepository().Create(ctx, sess); err != nil {
			return nil, err
		}
	} else {
		if err := uow.ComparisonSessionRepository().Update(ctx, sess); err != nil {
			return nil, err
		}
	}
	if err := uow.ComparisonMessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	cs.sessionCache.Delete(sess.Id.String())

	if cs.eventPublisher != nil {
		evt := events.NewComparisonCompleted(sess.Id.String(), similarity)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish comparison.completed event: %v\n", err)
		}
	}

	cs.log.Info("compare_service", "Comparison completed", map[string]interface{}{
		"session_id":          sess.Id.String(),
		"baseline_latency_ms": baseline.latencyMs,
		"rag_latency_ms":      rag.latencyMs,
		"semantic_similarity": similarity,
		"retrieved_chunks":    len(retrieved),
	})

	return &dto.CompareResponse{
		SessionId: sess.Id.String(),
		Prompt:    req.Prompt,
		Timestamp: ts,
		Baseline: dto.ModeResultResponse{
			Answer:    baseline.answer,
			LatencyMs: baseline.latencyMs,
		},
		Rag: dto.ModeResultResponse{
			Answer:     rag.answer,
			LatencyMs:  rag.latencyMs,
			Similarity: &ragScore,
		},
		Metrics: dto.ComparisonMetricsResponse{
			BaselineLatencyMs:  baseline.latencyMs,
			RagLatencyMs:       rag.latencyMs,
			SemanticSimilarity: similarity,
			CreatedAt:          sess.CreatedAt,
			UpdatedAt:          ts,
		},
		Retrieval: toRetrievedChunkResponses(msg.Retrieval),
	}, nil
}

func (cs *compareService) runBaseline(ctx context.Context, prompt string) (pipelineResult, error) {
	start := time.Now()
	answer, err := cs.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: baselineSystemPrompt},
		{Role: "user", Content: prompt},
	}, llm.WithTemperature(baselineTemperature))
	if err != nil {
		return pipelineResult{}, err
	}
	return pipelineResult{
		answer:    answer,
		latencyMs: time.Since(start).Seconds() * 1000,
	}, nil
}

func (cs *compareService) runRag(ctx context.Context, prompt string, topK int) (pipelineResult, []*contract.ScoredDocumentChunk, error) {
	start := time.Now()

	queryEmb, err := cs.embeddingProvider.Generate(ctx, prompt, "RETRIEVAL_QUERY")
	if err != nil {
		return pipelineResult{}, nil, fmt.Errorf("embed prompt: %w", err)
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	retrieved, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, queryEmb.Embedding.Values, topK, 0)
	if err != nil {
		return pipelineResult{}, nil, fmt.Errorf("search chunks: %w", err)
	}

	// An empty context is passed through as-is: the system prompt instructs
	// the model to say the context lacks the answer.
	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", buildContext(retrieved), prompt)

	answer, err := cs.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: ragSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, llm.WithTemperature(ragTemperature))
	if err != nil {
		return pipelineResult{}, nil, err
	}

	return pipelineResult{
		answer:    answer,
		latencyMs: time.Since(start).Seconds() * 1000,
	}, retrieved, nil
}

// answerSimilarity embeds both answers and compares them. When either
// embedding fails the best retrieval score stands in, and without any
// retrieval the similarity is 0.
func (cs *compareService) answerSimilarity(ctx context.Context, baselineAnswer, ragAnswer string, retrieved []*contract.ScoredDocumentChunk) float64 {
	baseEmb, baseErr := cs.embeddingProvider.Generate(ctx, baselineAnswer, "SEMANTIC_SIMILARITY")
	ragEmb, ragErr := cs.embeddingProvider.Generate(ctx, ragAnswer, "SEMANTIC_SIMILARITY")
	if baseErr == nil && ragErr == nil {
		return metrics.CosineSimilarity(baseEmb.Embedding.Values, ragEmb.Embedding.Values)
	}

	details := map[string]interface{}{}
	if baseErr != nil {
		details["baseline_error"] = baseErr.Error()
	}
	if ragErr != nil {
		details["rag_error"] = ragErr.Error()
	}
	cs.log.Warn("compare_service", "Answer embedding failed, falling back to retrieval similarity", details)

	best := 0.0
	for _, sc := range retrieved {
		if sc.Similarity > best {
			best = sc.Similarity
		}
	}
	return best
}

func newComparisonSession(id uuid.UUID, prompt string, ts time.Time) *entity.ComparisonSession {
	return &entity.ComparisonSession{
		Id:        id,
		Title:     sessionTitle(prompt),
		CreatedAt: ts,
	}
}

func sessionTitle(prompt string) string {
	title := strings.TrimSpace(prompt)
	if title == "" {
		return "New comparison"
	}
	runes := []rune(title)
	if len(runes) > titleMaxRunes {
		return string(runes[:titleMaxRunes]) + "..."
	}
	return title
}

// buildContext renders retrieved chunks into the numbered block the RAG
// prompt consumes. Newlines inside chunks are flattened to keep one chunk
// per line.
func buildContext(retrieved []*contract.ScoredDocumentChunk) string {
	if len(retrieved) == 0 {
		return ""
	}
	var b strings.Builder
	for i, sc := range retrieved {
		text := strings.ReplaceAll(sc.Chunk.Content, "\n", " ")
		fmt.Fprintf(&b, "[%d] (file: %s, chunk: %d) %s\n", i+1, sc.FileName, sc.Chunk.ChunkIndex, text)
	}
	return strings.TrimRight(b.String(), "\n")
}

func snippet(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

func retrievalEntities(scored []*contract.ScoredDocumentChunk) []entity.RetrievedChunk {
	out := make([]entity.RetrievedChunk, len(scored))
	for i, sc := range scored {
		out[i] = entity.RetrievedChunk{
			DocumentId: sc.Chunk.DocumentId,
			FileName:   sc.FileName,
			ChunkIndex: sc.Chunk.ChunkIndex,
			Score:      sc.Similarity,
			Snippet:    snippet(sc.Chunk.Content, snippetMaxRunes),
		}
	}
	return out
}

func toRetrievedChunkResponses(chunks []entity.RetrievedChunk) []dto.RetrievedChunkResponse {
	if len(chunks) == 0 {
		return nil
	}
	out := make([]dto.RetrievedChunkResponse, len(chunks))
	for i, c := range chunks {
		out[i] = dto.RetrievedChunkResponse{
			DocumentId: c.DocumentId,
			FileName:   c.FileName,
			ChunkIndex: c.ChunkIndex,
			Score:      c.Score,
			Snippet:    c.Snippet,
		}
	}
	return out
}
