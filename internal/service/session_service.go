package service

import (
	"context"
	"errors"
	"fmt"

	"rag-compare-be/internal/dto"
	"rag-compare-be/internal/entity"
	"rag-compare-be/internal/pkg/logger"
	"rag-compare-be/internal/repository/memory"
	"rag-compare-be/internal/repository/specification"
	"rag-compare-be/internal/repository/unitofwork"
	"rag-compare-be/pkg/events"
	"rag-compare-be/pkg/metrics"
	pktNats "rag-compare-be/pkg/nats"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("Session not found")

type ISessionService interface {
	GetAll(ctx context.Context) ([]*dto.SessionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

type sessionService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessionCache   *memory.SessionCache
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	sessionCache *memory.SessionCache,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:     uowFactory,
		sessionCache:   sessionCache,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// GetAll returns every session, most recently updated first, with the full
// message history clients reconcile their local state against.
func (ss *sessionService) GetAll(ctx context.Context) ([]*dto.SessionResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ComparisonSessionRepository().FindAll(ctx,
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		res, err := ss.buildSessionResponse(ctx, uow, sess)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (ss *sessionService) Get(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	if cached, found := ss.sessionCache.Get(id.String()); found {
		return cached, nil
	}

	uow := ss.uowFactory.NewUnitOfWork(ctx)
	sess, err := uow.ComparisonSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	res, err := ss.buildSessionResponse(ctx, uow, sess)
	if err != nil {
		return nil, err
	}
	ss.sessionCache.Save(res)
	return res, nil
}

func (ss *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := ss.uowFactory.NewUnitOfWork(ctx)
	sess, err := uow.ComparisonSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrSessionNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ComparisonMessageRepository().DeleteBySessionId(ctx, id); err != nil {
		return err
	}
	if err := uow.ComparisonSessionRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	ss.sessionCache.Delete(id.String())

	if ss.eventPublisher != nil {
		evt := events.NewSessionDeleted(id.String())
		if err := ss.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish session.deleted event: %v\n", err)
		}
	}

	ss.log.Info("session_service", "Session deleted", map[string]interface{}{
		"session_id": id.String(),
	})
	return nil
}

func (ss *sessionService) DeleteAll(ctx context.Context) (int64, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	if err := uow.ComparisonMessageRepository().DeleteAll(ctx); err != nil {
		return 0, err
	}
	deleted, err := uow.ComparisonSessionRepository().DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}

	ss.sessionCache.Flush()

	if ss.eventPublisher != nil {
		evt := events.NewSessionsCleared(deleted)
		if err := ss.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish sessions.cleared event: %v\n", err)
		}
	}

	ss.log.Info("session_service", "All sessions cleared", map[string]interface{}{
		"deleted": deleted,
	})
	return deleted, nil
}

func (ss *sessionService) buildSessionResponse(ctx context.Context, uow unitofwork.UnitOfWork, sess *entity.ComparisonSession) (*dto.SessionResponse, error) {
	msgs, err := uow.ComparisonMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sess.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	messages := make([]dto.SessionMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		// The RAG similarity is rebuilt from the stored retrieval scores,
		// matching what the compare response carried at the time.
		scores := make([]float64, len(m.Retrieval))
		for i, rc := range m.Retrieval {
			scores[i] = rc.Score
		}
		ragScore := metrics.AverageScore(scores)

		messages = append(messages, dto.SessionMessageResponse{
			Prompt:    m.Prompt,
			Timestamp: m.CreatedAt,
			Baseline: dto.ModeResultResponse{
				Answer:    m.BaselineAnswer,
				LatencyMs: m.BaselineLatencyMs,
			},
			Rag: dto.ModeResultResponse{
				Answer:     m.RagAnswer,
				LatencyMs:  m.RagLatencyMs,
				Similarity: &ragScore,
			},
			Retrieval: toRetrievedChunkResponses(m.Retrieval),
		})
	}

	updatedAt := sess.CreatedAt
	if sess.UpdatedAt != nil {
		updatedAt = *sess.UpdatedAt
	}

	return &dto.SessionResponse{
		SessionId:    sess.Id.String(),
		Title:        sess.Title,
		MessageCount: len(messages),
		Messages:     messages,
		Metrics: dto.ComparisonMetricsResponse{
			BaselineLatencyMs:  sess.BaselineLatencyMs,
			RagLatencyMs:       sess.RagLatencyMs,
			SemanticSimilarity: sess.SemanticSimilarity,
			CreatedAt:          sess.CreatedAt,
			UpdatedAt:          updatedAt,
		},
		CreatedAt: sess.CreatedAt,
		UpdatedAt: updatedAt,
	}, nil
}
