package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bprlabs/backend/internal/repository"
	"github.com/bprlabs/backend/pkg/testutil"
)

func Test_badgeManager_Unlock_Idempotent(t *testing.T) {
	ctx := testutil.MockContext()
	badgeRepo := repository.NewPatientBadgeRepository()
	notificationRepo := repository.NewJourneyNotificationRepository()
	postRepo := repository.NewCommunityPostRepository()
	publisher := &testutil.MockPublisher{}
	fanout := NewFanoutService(notificationRepo, postRepo, &testutil.MockUserCaller{}, publisher)
	manager := NewBadgeManager(badgeRepo, fanout)

	created, err := manager.Unlock(ctx, "patient1", "", "streak_3")
	require.NoError(t, err)
	require.True(t, created)

	created, err = manager.Unlock(ctx, "patient1", "", "streak_3")
	require.NoError(t, err)
	require.False(t, created)

	// The fan-out fired exactly once.
	unread, err := notificationRepo.CountUnread(ctx, "patient1")
	require.NoError(t, err)
	require.EqualValues(t, 1, unread)
	require.Len(t, publisher.Published, 1)

	// Another patient unlocking the same badge is independent.
	created, err = manager.Unlock(ctx, "patient2", "", "streak_3")
	require.NoError(t, err)
	require.True(t, created)
}

func Test_badgeManager_Unlock_UnknownBadge(t *testing.T) {
	ctx := testutil.MockContext()
	badgeRepo := repository.NewPatientBadgeRepository()
	fanout := NewFanoutService(
		repository.NewJourneyNotificationRepository(),
		repository.NewCommunityPostRepository(),
		&testutil.MockUserCaller{},
		&testutil.MockPublisher{},
	)
	manager := NewBadgeManager(badgeRepo, fanout)

	created, err := manager.Unlock(ctx, "patient1", "", "not_a_badge")
	require.NoError(t, err)
	require.False(t, created)

	count, err := badgeRepo.Count(ctx, repository.PatientBadgeFilter{PatientID: "patient1"})
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func Test_badgeManager_ScanStreak(t *testing.T) {
	ctx := testutil.MockContext()
	badgeRepo := repository.NewPatientBadgeRepository()
	fanout := NewFanoutService(
		repository.NewJourneyNotificationRepository(),
		repository.NewCommunityPostRepository(),
		&testutil.MockUserCaller{},
		&testutil.MockPublisher{},
	)
	manager := NewBadgeManager(badgeRepo, fanout)

	unlocked := manager.ScanStreak(ctx, "patient1", "", 14)
	require.Len(t, unlocked, 3)

	// Already unlocked milestones are not reported again.
	unlocked = manager.ScanStreak(ctx, "patient1", "", 30)
	require.Len(t, unlocked, 1)
	require.Equal(t, "streak_30", unlocked[0].Key)
}

func Test_badgeManager_ScanLevel(t *testing.T) {
	ctx := testutil.MockContext()
	badgeRepo := repository.NewPatientBadgeRepository()
	fanout := NewFanoutService(
		repository.NewJourneyNotificationRepository(),
		repository.NewCommunityPostRepository(),
		&testutil.MockUserCaller{},
		&testutil.MockPublisher{},
	)
	manager := NewBadgeManager(badgeRepo, fanout)

	require.Empty(t, manager.ScanLevel(ctx, "patient1", "", 9))

	unlocked := manager.ScanLevel(ctx, "patient1", "", 25)
	require.Len(t, unlocked, 2)
}
