package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComparisonSession struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title              string         `gorm:"type:text;not null"`
	BaselineLatencyMs  float64        `gorm:"default:0"` // Latest metrics snapshot, overwritten per message
	RagLatencyMs       float64        `gorm:"default:0"`
	SemanticSimilarity float64        `gorm:"default:0"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (ComparisonSession) TableName() string {
	return "comparison_sessions"
}
