package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/types"
)

type ResourceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, resource *types.Resource) error
	GetByID(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (*types.Resource, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Resource, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (bool, error)
}

type resourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	return &resourceRepo{db: db, log: baseLog.With("repo", "ResourceRepo")}
}

func (rr *resourceRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return rr.db
}

func (rr *resourceRepo) Create(ctx context.Context, tx *gorm.DB, resource *types.Resource) error {
	if resource.ID == uuid.Nil {
		resource.ID = uuid.New()
	}
	return rr.conn(tx).WithContext(ctx).Create(resource).Error
}

func (rr *resourceRepo) GetByID(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (*types.Resource, error) {
	var resource types.Resource
	err := rr.conn(tx).WithContext(ctx).Where("id = ?", resourceID).First(&resource).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (rr *resourceRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Resource, error) {
	var results []*types.Resource
	q := rr.conn(tx).WithContext(ctx).Order("created_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *resourceRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := rr.conn(tx).WithContext(ctx).Model(&types.Resource{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (rr *resourceRepo) Delete(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (bool, error) {
	res := rr.conn(tx).WithContext(ctx).Where("id = ?", resourceID).Delete(&types.Resource{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
