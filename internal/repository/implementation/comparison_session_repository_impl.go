package implementation

import (
	"context"
	"errors"

	"rag-compare-be/internal/entity"
	"rag-compare-be/internal/mapper"
	"rag-compare-be/internal/model"
	"rag-compare-be/internal/repository/contract"
	"rag-compare-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComparisonSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ComparisonSessionMapper
}

func NewComparisonSessionRepository(db *gorm.DB) contract.ComparisonSessionRepository {
	return &ComparisonSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewComparisonSessionMapper(),
	}
}

func (r *ComparisonSessionRepositoryImpl) Create(ctx context.Context, session *entity.ComparisonSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *ComparisonSessionRepositoryImpl) Update(ctx context.Context, session *entity.ComparisonSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *ComparisonSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ComparisonSession{}, id).Error
}

func (r *ComparisonSessionRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("deleted_at IS NULL").Delete(&model.ComparisonSession{})
	return res.RowsAffected, res.Error
}

func (r *ComparisonSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ComparisonSession, error) {
	var m model.ComparisonSession
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ComparisonSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ComparisonSession, error) {
	var models []*model.ComparisonSession
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ComparisonSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ComparisonSession{}).Count(&count).Error
	return count, err
}
