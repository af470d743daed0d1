package repository

import (
	"context"
	"time"

	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type JourneyNotificationRepository interface {
	Create(ctx context.Context, data *entity.JourneyNotification) error
	GetList(ctx context.Context, patientID string, limit int) ([]entity.JourneyNotification, error)
	CountUnread(ctx context.Context, patientID string) (int64, error)
	ExistsSince(ctx context.Context, patientID, notificationType string, since time.Time) (bool, error)
	MarkRead(ctx context.Context, patientID, id string) error
	MarkAllRead(ctx context.Context, patientID string) error
}

type journeyNotificationRepository struct{}

func NewJourneyNotificationRepository() *journeyNotificationRepository {
	return &journeyNotificationRepository{}
}

func (r *journeyNotificationRepository) Create(ctx context.Context, data *entity.JourneyNotification) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *journeyNotificationRepository) GetList(
	ctx context.Context, patientID string, limit int,
) ([]entity.JourneyNotification, error) {
	var result []entity.JourneyNotification
	err := xcontext.DB(ctx).
		Where("patient_id=?", patientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *journeyNotificationRepository) CountUnread(ctx context.Context, patientID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.JourneyNotification{}).
		Where("patient_id=? AND is_read=?", patientID, false).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

// ExistsSince is the dedup check for cron reminders; one reminder of a given
// type per patient per day.
func (r *journeyNotificationRepository) ExistsSince(
	ctx context.Context, patientID, notificationType string, since time.Time,
) (bool, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.JourneyNotification{}).
		Where("patient_id=? AND type=? AND created_at >= ?", patientID, notificationType, since).
		Count(&result).Error
	if err != nil {
		return false, err
	}

	return result > 0, nil
}

func (r *journeyNotificationRepository) MarkRead(ctx context.Context, patientID, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.JourneyNotification{}).
		Where("id=? AND patient_id=?", id, patientID).
		Update("is_read", true)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *journeyNotificationRepository) MarkAllRead(ctx context.Context, patientID string) error {
	return xcontext.DB(ctx).
		Model(&entity.JourneyNotification{}).
		Where("patient_id=? AND is_read=?", patientID, false).
		Update("is_read", true).Error
}
