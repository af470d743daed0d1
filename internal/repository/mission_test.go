package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/pkg/dateutil"
	"github.com/bprlabs/backend/pkg/testutil"
)

func testMission(patientID string, weekStart time.Time, isBonus bool) *entity.Mission {
	return &entity.Mission{
		Base:      entity.Base{ID: uuid.NewString()},
		PatientID: patientID,
		WeekStart: weekStart,
		IsBonus:   isBonus,
		Tasks: entity.Array[entity.MissionTask]{
			{Key: "task1", XP: 20},
			{Key: "task2", XP: 10},
		},
		XPReward: 50,
	}
}

func Test_missionRepository_Create_DedupsWeekSlot(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewMissionRepository()

	weekStart := dateutil.WeekStart(time.Now())
	require.NoError(t, repo.Create(ctx, testMission("patient1", weekStart, false)))

	// The losing writer of the same patient-week slot is silently ignored.
	require.NoError(t, repo.Create(ctx, testMission("patient1", weekStart, false)))

	// A bonus mission in the same week is a different slot.
	require.NoError(t, repo.Create(ctx, testMission("patient1", weekStart, true)))

	missions, err := repo.GetByWeek(ctx, "patient1", weekStart)
	require.NoError(t, err)
	require.Len(t, missions, 2)
	require.False(t, missions[0].IsBonus)
	require.True(t, missions[1].IsBonus)
}

func Test_missionRepository_UpdateTasks(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewMissionRepository()

	weekStart := dateutil.WeekStart(time.Now())
	mission := testMission("patient1", weekStart, false)
	require.NoError(t, repo.Create(ctx, mission))

	mission.Tasks[0].Completed = true
	require.NoError(t, repo.UpdateTasks(ctx, mission.ID, mission.Tasks, sql.NullTime{}))

	stored, err := repo.GetByID(ctx, mission.ID)
	require.NoError(t, err)
	require.True(t, stored.Tasks[0].Completed)
	require.False(t, stored.Tasks[1].Completed)
	require.False(t, stored.CompletedAt.Valid)

	mission.Tasks[1].Completed = true
	completedAt := sql.NullTime{Time: time.Now(), Valid: true}
	require.NoError(t, repo.UpdateTasks(ctx, mission.ID, mission.Tasks, completedAt))

	stored, err = repo.GetByID(ctx, mission.ID)
	require.NoError(t, err)
	require.True(t, stored.CompletedAt.Valid)

	require.Error(t, repo.UpdateTasks(ctx, "no-such-id", mission.Tasks, sql.NullTime{}))
}

func Test_missionRepository_Count(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewMissionRepository()

	thisWeek := dateutil.WeekStart(time.Now())
	lastWeek := thisWeek.AddDate(0, 0, -7)

	require.NoError(t, repo.Create(ctx, testMission("patient1", lastWeek, false)))
	require.NoError(t, repo.Create(ctx, testMission("patient1", thisWeek, false)))

	done := testMission("patient2", thisWeek, false)
	done.CompletedAt = sql.NullTime{Time: time.Now(), Valid: true}
	require.NoError(t, repo.Create(ctx, done))

	count, err := repo.Count(ctx, MissionFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	count, err = repo.Count(ctx, MissionFilter{PatientID: "patient1"})
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	count, err = repo.Count(ctx, MissionFilter{OnlyCompleted: true})
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}
