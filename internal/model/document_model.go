package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FileName    string         `gorm:"type:text;not null"`
	ContentType string         `gorm:"type:varchar(100)"`
	SizeBytes   int64          `gorm:"default:0"`
	Content     string         `gorm:"type:text"` // Extracted text the splitter works on
	Status      string         `gorm:"type:varchar(20);not null;default:'pending';index"`
	FailReason  *string        `gorm:"type:text"`
	ChunkCount  int            `gorm:"default:0"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
