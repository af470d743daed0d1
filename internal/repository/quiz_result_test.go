package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/pkg/testutil"
)

func Test_quizResultRepository_Latest(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewQuizResultRepository()

	// No result yet is not an error.
	result, err := repo.Latest(ctx, "patient1")
	require.NoError(t, err)
	require.Nil(t, result)

	require.NoError(t, repo.Create(ctx, &entity.QuizResult{
		Base:         entity.Base{ID: uuid.NewString()},
		PatientID:    "patient1",
		ArchetypeKey: "warrior",
		CompletedAt:  time.Now().Add(-time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &entity.QuizResult{
		Base:         entity.Base{ID: uuid.NewString()},
		PatientID:    "patient1",
		ArchetypeKey: "explorer",
		CompletedAt:  time.Now(),
	}))

	result, err = repo.Latest(ctx, "patient1")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "explorer", result.ArchetypeKey)
}
