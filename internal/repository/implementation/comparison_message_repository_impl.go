package implementation

import (
	"context"

	"rag-compare-be/internal/entity"
	"rag-compare-be/internal/mapper"
	"rag-compare-be/internal/model"
	"rag-compare-be/internal/repository/contract"
	"rag-compare-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComparisonMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ComparisonMessageMapper
}

func NewComparisonMessageRepository(db *gorm.DB) contract.ComparisonMessageRepository {
	return &ComparisonMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewComparisonMessageMapper(),
	}
}

func (r *ComparisonMessageRepositoryImpl) Create(ctx context.Context, message *entity.ComparisonMessage) error {
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *ComparisonMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ComparisonMessage, error) {
	var models []*model.ComparisonMessage
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ComparisonMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ComparisonMessage{}).Count(&count).Error
	return count, err
}

func (r *ComparisonMessageRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.ComparisonMessage{}).Error
}

func (r *ComparisonMessageRepositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("deleted_at IS NULL").Delete(&model.ComparisonMessage{}).Error
}
