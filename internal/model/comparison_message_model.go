package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ComparisonMessage struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	Prompt             string         `gorm:"type:text;not null"`
	BaselineAnswer     string         `gorm:"type:text"`
	BaselineLatencyMs  float64        `gorm:"default:0"`
	RagAnswer          string         `gorm:"type:text"`
	RagLatencyMs       float64        `gorm:"default:0"`
	SemanticSimilarity float64        `gorm:"default:0"`
	Retrieval          datatypes.JSON `gorm:"type:jsonb"` // []entity.RetrievedChunk
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (ComparisonMessage) TableName() string {
	return "comparison_messages"
}
