package mapper

import (
	"encoding/json"
	"time"

	"rag-compare-be/internal/entity"
	"rag-compare-be/internal/model"

	"gorm.io/gorm"
)

type ComparisonSessionMapper struct{}

func NewComparisonSessionMapper() *ComparisonSessionMapper {
	return &ComparisonSessionMapper{}
}

func (m *ComparisonSessionMapper) ToEntity(e *model.ComparisonSession) *entity.ComparisonSession {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ComparisonSession{
		Id:                 e.Id,
		Title:              e.Title,
		BaselineLatencyMs:  e.BaselineLatencyMs,
		RagLatencyMs:       e.RagLatencyMs,
		SemanticSimilarity: e.SemanticSimilarity,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          updatedAt,
		DeletedAt:          deletedAt,
		IsDeleted:          e.DeletedAt.Valid,
	}
}

func (m *ComparisonSessionMapper) ToModel(e *entity.ComparisonSession) *model.ComparisonSession {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ComparisonSession{
		Id:                 e.Id,
		Title:              e.Title,
		BaselineLatencyMs:  e.BaselineLatencyMs,
		RagLatencyMs:       e.RagLatencyMs,
		SemanticSimilarity: e.SemanticSimilarity,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          updatedAt,
		DeletedAt:          deletedAt,
	}
}

func (m *ComparisonSessionMapper) ToEntities(sessions []*model.ComparisonSession) []*entity.ComparisonSession {
	entities := make([]*entity.ComparisonSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

type ComparisonMessageMapper struct{}

func NewComparisonMessageMapper() *ComparisonMessageMapper {
	return &ComparisonMessageMapper{}
}

func (m *ComparisonMessageMapper) ToEntity(e *model.ComparisonMessage) *entity.ComparisonMessage {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	// Retrieval is best-effort: a row written before the column existed, or
	// with a null value, maps to no chunks.
	var retrieval []entity.RetrievedChunk
	if len(e.Retrieval) > 0 {
		_ = json.Unmarshal(e.Retrieval, &retrieval)
	}

	return &entity.ComparisonMessage{
		Id:                 e.Id,
		SessionId:          e.SessionId,
		Prompt:             e.Prompt,
		BaselineAnswer:     e.BaselineAnswer,
		BaselineLatencyMs:  e.BaselineLatencyMs,
		RagAnswer:          e.RagAnswer,
		RagLatencyMs:       e.RagLatencyMs,
		SemanticSimilarity: e.SemanticSimilarity,
		Retrieval:          retrieval,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          updatedAt,
		DeletedAt:          deletedAt,
		IsDeleted:          e.DeletedAt.Valid,
	}
}

func (m *ComparisonMessageMapper) ToModel(e *entity.ComparisonMessage) *model.ComparisonMessage {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	var retrieval []byte
	if len(e.Retrieval) > 0 {
		retrieval, _ = json.Marshal(e.Retrieval)
	}

	return &model.ComparisonMessage{
		Id:                 e.Id,
		SessionId:          e.SessionId,
		Prompt:             e.Prompt,
		BaselineAnswer:     e.BaselineAnswer,
		BaselineLatencyMs:  e.BaselineLatencyMs,
		RagAnswer:          e.RagAnswer,
		RagLatencyMs:       e.RagLatencyMs,
		SemanticSimilarity: e.SemanticSimilarity,
		Retrieval:          retrieval,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          updatedAt,
		DeletedAt:          deletedAt,
	}
}

func (m *ComparisonMessageMapper) ToEntities(messages []*model.ComparisonMessage) []*entity.ComparisonMessage {
	entities := make([]*entity.ComparisonMessage, len(messages))
	for i, msg := range messages {
		entities[i] = m.ToEntity(msg)
	}
	return entities
}
