package repository

import (
	"context"

	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CommunityPostRepository interface {
	Create(ctx context.Context, data *entity.CommunityPost) error
	GetRecent(ctx context.Context, clinicID string, limit int) ([]entity.CommunityPost, error)
	AddHighFive(ctx context.Context, id string) error
	Count(ctx context.Context, clinicID string) (int64, error)
}

type communityPostRepository struct{}

func NewCommunityPostRepository() *communityPostRepository {
	return &communityPostRepository{}
}

func (r *communityPostRepository) Create(ctx context.Context, data *entity.CommunityPost) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *communityPostRepository) GetRecent(
	ctx context.Context, clinicID string, limit int,
) ([]entity.CommunityPost, error) {
	tx := xcontext.DB(ctx).Model(&entity.CommunityPost{})
	if clinicID != "" {
		tx = tx.Where("clinic_id=?", clinicID)
	}

	var result []entity.CommunityPost
	err := tx.Order("created_at DESC").Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *communityPostRepository) AddHighFive(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.CommunityPost{}).
		Where("id=?", id).
		Update("high_fives", gorm.Expr("high_fives+1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *communityPostRepository) Count(ctx context.Context, clinicID string) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.CommunityPost{})
	if clinicID != "" {
		tx = tx.Where("clinic_id=?", clinicID)
	}

	var result int64
	if err := tx.Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}
