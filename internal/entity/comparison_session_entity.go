package entity

import (
	"time"

	"github.com/google/uuid"
)

type ComparisonSession struct {
	Id                 uuid.UUID
	Title              string
	BaselineLatencyMs  float64
	RagLatencyMs       float64
	SemanticSimilarity float64
	CreatedAt          time.Time
	UpdatedAt          *time.Time
	DeletedAt          *time.Time
	IsDeleted          bool
}
