package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MissionRepository interface {
	Create(ctx context.Context, data *entity.Mission) error
	GetByID(ctx context.Context, id string) (*entity.Mission, error)
	GetByWeek(ctx context.Context, patientID string, weekStart time.Time) ([]entity.Mission, error)
	UpdateTasks(ctx context.Context, id string, tasks entity.Array[entity.MissionTask], completedAt sql.NullTime) error
	Count(ctx context.Context, filter MissionFilter) (int64, error)
}

type MissionFilter struct {
	PatientID     string
	ClinicID      string
	OnlyCompleted bool
}

type missionRepository struct{}

func NewMissionRepository() *missionRepository {
	return &missionRepository{}
}

// Create inserts a mission and silently keeps the existing one when another
// writer already assigned the same patient-week slot.
func (r *missionRepository) Create(ctx context.Context, data *entity.Mission) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data).Error
}

func (r *missionRepository) GetByID(ctx context.Context, id string) (*entity.Mission, error) {
	var result entity.Mission
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *missionRepository) GetByWeek(
	ctx context.Context, patientID string, weekStart time.Time,
) ([]entity.Mission, error) {
	var result []entity.Mission
	err := xcontext.DB(ctx).
		Where("patient_id=? AND week_start=?", patientID, weekStart).
		Order("is_bonus ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *missionRepository) UpdateTasks(
	ctx context.Context, id string, tasks entity.Array[entity.MissionTask], completedAt sql.NullTime,
) error {
	updateMap := map[string]any{"tasks": tasks}
	if completedAt.Valid {
		updateMap["completed_at"] = completedAt
	}

	tx := xcontext.DB(ctx).
		Model(&entity.Mission{}).
		Where("id=?", id).
		Updates(updateMap)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *missionRepository) Count(ctx context.Context, filter MissionFilter) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Mission{})

	if filter.PatientID != "" {
		tx = tx.Where("patient_id=?", filter.PatientID)
	}

	if filter.ClinicID != "" {
		tx = tx.Where("clinic_id=?", filter.ClinicID)
	}

	if filter.OnlyCompleted {
		tx = tx.Where("completed_at IS NOT NULL")
	}

	var result int64
	if err := tx.Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}
