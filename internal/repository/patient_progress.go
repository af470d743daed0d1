package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PatientProgressRepository interface {
	Get(ctx context.Context, patientID string) (*entity.PatientProgress, error)
	Ensure(ctx context.Context, patientID, clinicID string) (*entity.PatientProgress, error)
	AddXP(ctx context.Context, patientID string, xp, credits int) error
	UpdateLevel(ctx context.Context, patientID string, level int, title string) error
	UpdateStreak(ctx context.Context, patientID string, streak, longest int, lastActive time.Time) error
	ResetStreak(ctx context.Context, patientID string) error
	GetList(ctx context.Context, clinicID string) ([]entity.PatientProgress, error)
	GetTopByXP(ctx context.Context, clinicID string, limit int) ([]entity.PatientProgress, error)
	Count(ctx context.Context, clinicID string) (int64, error)
}

type patientProgressRepository struct{}

func NewPatientProgressRepository() *patientProgressRepository {
	return &patientProgressRepository{}
}

func (r *patientProgressRepository) Get(ctx context.Context, patientID string) (*entity.PatientProgress, error) {
	var result entity.PatientProgress
	if err := xcontext.DB(ctx).Take(&result, "patient_id=?", patientID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// Ensure creates the row with level-one defaults if it does not exist yet.
// Concurrent first calls for the same patient resolve to a single row.
func (r *patientProgressRepository) Ensure(
	ctx context.Context, patientID, clinicID string,
) (*entity.PatientProgress, error) {
	record := &entity.PatientProgress{
		PatientID:  patientID,
		ClinicID:   entity.NullString(clinicID),
		Level:      1,
		LevelTitle: "Recovery Starter",
	}

	err := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record).Error
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, patientID)
}

func (r *patientProgressRepository) AddXP(ctx context.Context, patientID string, xp, credits int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.PatientProgress{}).
		Where("patient_id=?", patientID).
		Updates(map[string]any{
			"total_xp_earned": gorm.Expr("total_xp_earned+?", xp),
			"xp":              gorm.Expr("xp+?", xp),
			"bpr_credits":     gorm.Expr("bpr_credits+?", credits),
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of rows effected is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UpdateLevel only moves the level forward, so a stale writer racing a newer
// one cannot demote the patient.
func (r *patientProgressRepository) UpdateLevel(
	ctx context.Context, patientID string, level int, title string,
) error {
	return xcontext.DB(ctx).
		Model(&entity.PatientProgress{}).
		Where("patient_id=? AND level < ?", patientID, level).
		Updates(map[string]any{
			"level":       level,
			"level_title": title,
		}).Error
}

func (r *patientProgressRepository) UpdateStreak(
	ctx context.Context, patientID string, streak, longest int, lastActive time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.PatientProgress{}).
		Where("patient_id=?", patientID).
		Updates(map[string]any{
			"streak_days":      streak,
			"longest_streak":   longest,
			"last_active_date": lastActive,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *patientProgressRepository) ResetStreak(ctx context.Context, patientID string) error {
	return xcontext.DB(ctx).
		Model(&entity.PatientProgress{}).
		Where("patient_id=?", patientID).
		Update("streak_days", 0).Error
}

func (r *patientProgressRepository) GetList(ctx context.Context, clinicID string) ([]entity.PatientProgress, error) {
	tx := xcontext.DB(ctx).Model(&entity.PatientProgress{})
	if clinicID != "" {
		tx = tx.Where("clinic_id=?", clinicID)
	}

	var result []entity.PatientProgress
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *patientProgressRepository) GetTopByXP(
	ctx context.Context, clinicID string, limit int,
) ([]entity.PatientProgress, error) {
	tx := xcontext.DB(ctx).Model(&entity.PatientProgress{})
	if clinicID != "" {
		tx = tx.Where("clinic_id=?", clinicID)
	}

	var result []entity.PatientProgress
	err := tx.Order("total_xp_earned DESC").Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *patientProgressRepository) Count(ctx context.Context, clinicID string) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.PatientProgress{})
	if clinicID != "" {
		tx = tx.Where("clinic_id=?", clinicID)
	}

	var result int64
	if err := tx.Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}
