package repository

import (
	"context"
	"errors"

	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QuizResultRepository interface {
	Create(ctx context.Context, data *entity.QuizResult) error
	Latest(ctx context.Context, patientID string) (*entity.QuizResult, error)
}

type quizResultRepository struct{}

func NewQuizResultRepository() *quizResultRepository {
	return &quizResultRepository{}
}

func (r *quizResultRepository) Create(ctx context.Context, data *entity.QuizResult) error {
	return xcontext.DB(ctx).Create(data).Error
}

// Latest returns nil without error when the patient never took the quiz.
func (r *quizResultRepository) Latest(ctx context.Context, patientID string) (*entity.QuizResult, error) {
	var result entity.QuizResult
	err := xcontext.DB(ctx).
		Where("patient_id=?", patientID).
		Order("completed_at DESC").
		Take(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &result, nil
}
