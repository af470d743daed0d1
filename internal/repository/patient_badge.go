package repository

import (
	"context"

	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type PatientBadgeFilter struct {
	PatientID string
	ClinicID  string
}

type PatientBadgeRepository interface {
	Create(ctx context.Context, data *entity.PatientBadge) (bool, error)
	GetByPatient(ctx context.Context, patientID string) ([]entity.PatientBadge, error)
	Count(ctx context.Context, filter PatientBadgeFilter) (int64, error)
	GetRecent(ctx context.Context, clinicID string, limit int) ([]entity.PatientBadge, error)
}

type patientBadgeRepository struct{}

func NewPatientBadgeRepository() *patientBadgeRepository {
	return &patientBadgeRepository{}
}

// Create reports whether the badge was newly unlocked. A second unlock of the
// same badge is a no-op and returns false.
func (r *patientBadgeRepository) Create(ctx context.Context, data *entity.PatientBadge) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *patientBadgeRepository) GetByPatient(ctx context.Context, patientID string) ([]entity.PatientBadge, error) {
	var result []entity.PatientBadge
	err := xcontext.DB(ctx).
		Where("patient_id=?", patientID).
		Order("unlocked_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *patientBadgeRepository) Count(ctx context.Context, filter PatientBadgeFilter) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.PatientBadge{})

	if filter.PatientID != "" {
		tx = tx.Where("patient_id=?", filter.PatientID)
	}

	if filter.ClinicID != "" {
		tx = tx.Where("clinic_id=?", filter.ClinicID)
	}

	var result int64
	if err := tx.Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func (r *patientBadgeRepository) GetRecent(
	ctx context.Context, clinicID string, limit int,
) ([]entity.PatientBadge, error) {
	tx := xcontext.DB(ctx).Model(&entity.PatientBadge{})
	if clinicID != "" {
		tx = tx.Where("clinic_id=?", clinicID)
	}

	var result []entity.PatientBadge
	err := tx.Order("unlocked_at DESC").Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
