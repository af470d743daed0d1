package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/pkg/dateutil"
	"github.com/bprlabs/backend/pkg/testutil"
)

func testNotification(patientID, notificationType string) *entity.JourneyNotification {
	return &entity.JourneyNotification{
		Base:      entity.Base{ID: uuid.NewString()},
		PatientID: patientID,
		Type:      notificationType,
		Title:     "title",
		Message:   "message",
	}
}

func Test_journeyNotificationRepository_ReadFlow(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewJourneyNotificationRepository()

	first := testNotification("patient1", "level_up")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, testNotification("patient1", "badge_unlocked")))
	require.NoError(t, repo.Create(ctx, testNotification("patient2", "level_up")))

	unread, err := repo.CountUnread(ctx, "patient1")
	require.NoError(t, err)
	require.EqualValues(t, 2, unread)

	require.NoError(t, repo.MarkRead(ctx, "patient1", first.ID))
	unread, err = repo.CountUnread(ctx, "patient1")
	require.NoError(t, err)
	require.EqualValues(t, 1, unread)

	// A patient cannot read someone else's notification.
	require.Error(t, repo.MarkRead(ctx, "patient2", first.ID))

	require.NoError(t, repo.MarkAllRead(ctx, "patient1"))
	unread, err = repo.CountUnread(ctx, "patient1")
	require.NoError(t, err)
	require.EqualValues(t, 0, unread)

	list, err := repo.GetList(ctx, "patient1", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func Test_journeyNotificationRepository_ExistsSince(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewJourneyNotificationRepository()

	require.NoError(t, repo.Create(ctx, testNotification("patient1", "streak_reminder")))

	today := dateutil.Day(time.Now())
	exists, err := repo.ExistsSince(ctx, "patient1", "streak_reminder", today)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsSince(ctx, "patient1", "streak_reminder", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = repo.ExistsSince(ctx, "patient1", "level_up", today)
	require.NoError(t, err)
	require.False(t, exists)
}
