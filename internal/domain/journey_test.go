package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bprlabs/backend/internal/client"
	"github.com/bprlabs/backend/internal/model"
	"github.com/bprlabs/backend/internal/repository"
	"github.com/bprlabs/backend/pkg/dateutil"
	"github.com/bprlabs/backend/pkg/errorx"
	"github.com/bprlabs/backend/pkg/testutil"
	"github.com/bprlabs/backend/pkg/xcontext"
)

type testEngine struct {
	ctx context.Context

	progressRepo      repository.PatientProgressRepository
	missionRepo       repository.MissionRepository
	badgeRepo         repository.PatientBadgeRepository
	notificationRepo  repository.JourneyNotificationRepository
	communityPostRepo repository.CommunityPostRepository
	quizResultRepo    repository.QuizResultRepository

	publisher        *testutil.MockPublisher
	protocolCaller   *testutil.MockProtocolCaller
	assessmentCaller *testutil.MockAssessmentCaller

	badgeManager BadgeManager
	fanout       FanoutService
	journey      JourneyDomain
}

func newTestEngine(patientID string) *testEngine {
	e := &testEngine{
		ctx:               testutil.MockContextWithUserID(patientID),
		progressRepo:      repository.NewPatientProgressRepository(),
		missionRepo:       repository.NewMissionRepository(),
		badgeRepo:         repository.NewPatientBadgeRepository(),
		notificationRepo:  repository.NewJourneyNotificationRepository(),
		communityPostRepo: repository.NewCommunityPostRepository(),
		quizResultRepo:    repository.NewQuizResultRepository(),
		publisher:         &testutil.MockPublisher{},
		protocolCaller:    &testutil.MockProtocolCaller{},
		assessmentCaller:  &testutil.MockAssessmentCaller{},
	}

	e.fanout = NewFanoutService(
		e.notificationRepo, e.communityPostRepo, &testutil.MockUserCaller{}, e.publisher)
	e.badgeManager = NewBadgeManager(e.badgeRepo, e.fanout)
	e.journey = NewJourneyDomain(
		e.progressRepo, e.missionRepo, e.badgeRepo, e.notificationRepo,
		e.communityPostRepo, e.quizResultRepo, e.badgeManager, e.fanout,
		e.protocolCaller, e.assessmentCaller)

	return e
}

func Test_journeyDomain_GetJourney_FirstRead(t *testing.T) {
	e := newTestEngine("patient1")

	resp, err := e.journey.GetJourney(e.ctx, &model.GetJourneyRequest{})
	require.NoError(t, err)

	require.Equal(t, 1, resp.Progress.Level)
	require.Equal(t, "Recovery Starter", resp.Progress.LevelTitle)
	require.Equal(t, 0, resp.Progress.TotalXPEarned)
	require.Len(t, resp.Badges, 19)
	for _, b := range resp.Badges {
		require.False(t, b.Unlocked)
	}

	// Level 1 gets the standard mission only.
	require.Len(t, resp.Missions, 1)
	require.False(t, resp.Missions[0].IsBonus)
	require.Len(t, resp.Missions[0].Tasks, 3)
	require.Equal(t, 50, resp.Missions[0].XPReward)

	// A second read must not create a second mission.
	resp, err = e.journey.GetJourney(e.ctx, &model.GetJourneyRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Missions, 1)
}

func Test_journeyDomain_GetJourney_BonusMission(t *testing.T) {
	e := newTestEngine("patient1")

	_, err := e.progressRepo.Ensure(e.ctx, "patient1", "")
	require.NoError(t, err)
	// 800 lifetime XP projects to level 5, the bonus gate.
	require.NoError(t, e.progressRepo.AddXP(e.ctx, "patient1", 800, 80))

	resp, err := e.journey.GetJourney(e.ctx, &model.GetJourneyRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Missions, 2)
	require.False(t, resp.Missions[0].IsBonus)
	require.True(t, resp.Missions[1].IsBonus)
	require.Equal(t, 100, resp.Missions[1].XPReward)
}

func Test_journeyDomain_GetJourney_ResetsBrokenStreak(t *testing.T) {
	e := newTestEngine("patient1")

	_, err := e.progressRepo.Ensure(e.ctx, "patient1", "")
	require.NoError(t, err)

	threeDaysAgo := dateutil.Day(time.Now().AddDate(0, 0, -3))
	require.NoError(t, e.progressRepo.UpdateStreak(e.ctx, "patient1", 5, 5, threeDaysAgo))

	resp, err := e.journey.GetJourney(e.ctx, &model.GetJourneyRequest{})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Progress.StreakDays)
	require.Equal(t, 5, resp.Progress.LongestStreak)
}

func Test_journeyDomain_GetJourney_Ring(t *testing.T) {
	e := newTestEngine("patient1")

	e.protocolCaller.HomeExercisesFunc = func(ctx context.Context, patientID string) ([]client.ExerciseItem, error) {
		return []client.ExerciseItem{
			{Name: "Squat", Completed: true},
			{Name: "Plank", Completed: true},
			{Name: "Bridge", Completed: false},
			{Name: "Stretch", Completed: false},
		}, nil
	}
	score := 80
	e.assessmentCaller.LatestScoreFunc = func(ctx context.Context, patientID string) (*int, error) {
		return &score, nil
	}

	resp, err := e.journey.GetJourney(e.ctx, &model.GetJourneyRequest{})
	require.NoError(t, err)
	require.Equal(t, 50, resp.Ring.Exercise)
	require.Equal(t, 0, resp.Ring.Consistency)
	require.Equal(t, 80, resp.Ring.Wellbeing)
}

func Test_journeyDomain_GetJourney_RingDegradesOnOutage(t *testing.T) {
	e := newTestEngine("patient1")

	e.protocolCaller.HomeExercisesFunc = func(ctx context.Context, patientID string) ([]client.ExerciseItem, error) {
		return nil, context.DeadlineExceeded
	}
	e.assessmentCaller.LatestScoreFunc = func(ctx context.Context, patientID string) (*int, error) {
		return nil, context.DeadlineExceeded
	}

	resp, err := e.journey.GetJourney(e.ctx, &model.GetJourneyRequest{})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Ring.Exercise)
	require.Equal(t, 50, resp.Ring.Wellbeing)
}

func Test_journeyDomain_GetJourney_RingClampsAssessmentScore(t *testing.T) {
	e := newTestEngine("patient1")

	score := 140
	e.assessmentCaller.LatestScoreFunc = func(ctx context.Context, patientID string) (*int, error) {
		return &score, nil
	}

	resp, err := e.journey.GetJourney(e.ctx, &model.GetJourneyRequest{})
	require.NoError(t, err)
	require.Equal(t, 100, resp.Ring.Wellbeing)

	score = -5
	resp, err = e.journey.GetJourney(e.ctx, &model.GetJourneyRequest{})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Ring.Wellbeing)
}

func Test_journeyDomain_AddXP(t *testing.T) {
	e := newTestEngine("patient1")

	resp, err := e.journey.AddXP(e.ctx, &model.AddXPRequest{Type: "complete_daily_mission"})
	require.NoError(t, err)
	require.Equal(t, 50, resp.AwardedXP)
	require.Equal(t, 50, resp.TotalXP)
	require.Equal(t, 1, resp.Level)
	require.False(t, resp.LeveledUp)
	require.Equal(t, 5, resp.BPRCredits)

	resp, err = e.journey.AddXP(e.ctx, &model.AddXPRequest{Amount: 100})
	require.NoError(t, err)
	require.Equal(t, 150, resp.TotalXP)
	require.Equal(t, 2, resp.Level)
	require.Equal(t, "First Steps", resp.LevelTitle)
	require.True(t, resp.LeveledUp)

	// Level up fans out one notification, one community post and one event.
	unread, err := e.notificationRepo.CountUnread(e.ctx, "patient1")
	require.NoError(t, err)
	require.EqualValues(t, 1, unread)

	posts, err := e.communityPostRepo.GetRecent(e.ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.True(t, posts[0].IsAnon)
	require.Equal(t, "RecoveryHero_ent1", posts[0].AnonName)

	require.Len(t, e.publisher.Published, 1)
}

func Test_journeyDomain_AddXP_Invalid(t *testing.T) {
	e := newTestEngine("patient1")

	_, err := e.journey.AddXP(e.ctx, &model.AddXPRequest{Type: "not_a_reward"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Unknown reward type not_a_reward"), err)

	_, err = e.journey.AddXP(e.ctx, &model.AddXPRequest{Amount: -5})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid XP amount"), err)

	_, err = e.journey.AddXP(e.ctx, &model.AddXPRequest{})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid XP amount"), err)
}

func Test_journeyDomain_MarkActive(t *testing.T) {
	e := newTestEngine("patient1")

	resp, err := e.journey.MarkActive(e.ctx, &model.MarkActiveRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.StreakDays)
	require.Equal(t, 1, resp.LongestStreak)
	require.True(t, resp.Extended)

	// First activity unlocks the first badge.
	badges, err := e.badgeRepo.GetByPatient(e.ctx, "patient1")
	require.NoError(t, err)
	require.Len(t, badges, 1)
	require.Equal(t, "first_step", badges[0].BadgeKey)

	// Second call on the same day is a no-op.
	resp, err = e.journey.MarkActive(e.ctx, &model.MarkActiveRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.StreakDays)
	require.False(t, resp.Extended)
}

func Test_journeyDomain_MarkActive_ExtendsStreak(t *testing.T) {
	e := newTestEngine("patient1")

	_, err := e.progressRepo.Ensure(e.ctx, "patient1", "")
	require.NoError(t, err)

	yesterday := dateutil.Day(time.Now().AddDate(0, 0, -1))
	require.NoError(t, e.progressRepo.UpdateStreak(e.ctx, "patient1", 6, 6, yesterday))

	resp, err := e.journey.MarkActive(e.ctx, &model.MarkActiveRequest{})
	require.NoError(t, err)
	require.Equal(t, 7, resp.StreakDays)
	require.Equal(t, 7, resp.LongestStreak)
	require.True(t, resp.Extended)

	// Streak badges for every reached milestone plus the first activity one.
	badges, err := e.badgeRepo.GetByPatient(e.ctx, "patient1")
	require.NoError(t, err)
	keys := []string{}
	for _, b := range badges {
		keys = append(keys, b.BadgeKey)
	}
	require.Contains(t, keys, "first_step")
	require.Contains(t, keys, "streak_3")
	require.Contains(t, keys, "streak_7")
	require.NotContains(t, keys, "streak_14")

	// The 7-day milestone also pays its streak reward.
	progress, err := e.progressRepo.Get(e.ctx, "patient1")
	require.NoError(t, err)
	require.GreaterOrEqual(t, progress.TotalXPEarned, 75)
}

func Test_journeyDomain_MarkActive_RestartsAfterGap(t *testing.T) {
	e := newTestEngine("patient1")

	_, err := e.progressRepo.Ensure(e.ctx, "patient1", "")
	require.NoError(t, err)

	fourDaysAgo := dateutil.Day(time.Now().AddDate(0, 0, -4))
	require.NoError(t, e.progressRepo.UpdateStreak(e.ctx, "patient1", 10, 12, fourDaysAgo))

	resp, err := e.journey.MarkActive(e.ctx, &model.MarkActiveRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.StreakDays)
	require.Equal(t, 12, resp.LongestStreak)
}

func Test_journeyDomain_CompleteMissionTask(t *testing.T) {
	e := newTestEngine("patient1")

	journey, err := e.journey.GetJourney(e.ctx, &model.GetJourneyRequest{})
	require.NoError(t, err)
	mission := journey.Missions[0]

	resp, err := e.journey.CompleteMissionTask(e.ctx, &model.CompleteMissionTaskRequest{
		MissionID: mission.ID,
		TaskKey:   "complete_exercises",
	})
	require.NoError(t, err)
	require.Equal(t, 20, resp.AwardedXP)
	require.False(t, resp.MissionCompleted)

	// Completing the same task twice is rejected.
	_, err = e.journey.CompleteMissionTask(e.ctx, &model.CompleteMissionTaskRequest{
		MissionID: mission.ID,
		TaskKey:   "complete_exercises",
	})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "This task was already completed"), err)

	resp, err = e.journey.CompleteMissionTask(e.ctx, &model.CompleteMissionTaskRequest{
		MissionID: mission.ID,
		TaskKey:   "pain_checkin",
	})
	require.NoError(t, err)
	require.Equal(t, 15, resp.AwardedXP)

	// The last task pays its own XP plus the mission reward.
	resp, err = e.journey.CompleteMissionTask(e.ctx, &model.CompleteMissionTaskRequest{
		MissionID: mission.ID,
		TaskKey:   "read_article",
	})
	require.NoError(t, err)
	require.Equal(t, 60, resp.AwardedXP)
	require.True(t, resp.MissionCompleted)
	require.Equal(t, 95, resp.TotalXP)

	stored, err := e.missionRepo.GetByID(e.ctx, mission.ID)
	require.NoError(t, err)
	require.True(t, stored.CompletedAt.Valid)
}

func Test_journeyDomain_CompleteMissionTask_Errors(t *testing.T) {
	e := newTestEngine("patient1")

	_, err := e.journey.CompleteMissionTask(e.ctx, &model.CompleteMissionTaskRequest{
		MissionID: "no-such-mission",
		TaskKey:   "complete_exercises",
	})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found mission"), err)

	journey, err := e.journey.GetJourney(e.ctx, &model.GetJourneyRequest{})
	require.NoError(t, err)
	mission := journey.Missions[0]

	_, err = e.journey.CompleteMissionTask(e.ctx, &model.CompleteMissionTaskRequest{
		MissionID: mission.ID,
		TaskKey:   "no-such-task",
	})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found task no-such-task"), err)

	// Another patient cannot complete this mission.
	otherCtx := xcontext.WithRequestUserID(e.ctx, "patient2")
	_, err = e.journey.CompleteMissionTask(otherCtx, &model.CompleteMissionTaskRequest{
		MissionID: mission.ID,
		TaskKey:   "complete_exercises",
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
}

func Test_journeyDomain_SubmitQuizResult(t *testing.T) {
	e := newTestEngine("patient1")

	resp, err := e.journey.SubmitQuizResult(e.ctx, &model.SubmitQuizResultRequest{ArchetypeKey: "warrior"})
	require.NoError(t, err)
	require.Equal(t, 50, resp.AwardedXP)

	journey, err := e.journey.GetJourney(e.ctx, &model.GetJourneyRequest{})
	require.NoError(t, err)
	require.Equal(t, "warrior", journey.Archetype)

	badges, err := e.badgeRepo.GetByPatient(e.ctx, "patient1")
	require.NoError(t, err)
	require.Len(t, badges, 1)
	require.Equal(t, "quiz_master", badges[0].BadgeKey)

	_, err = e.journey.SubmitQuizResult(e.ctx, &model.SubmitQuizResultRequest{})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not found archetype key"), err)
}

func Test_journeyDomain_Notifications(t *testing.T) {
	e := newTestEngine("patient1")

	// Level up once to produce a notification.
	_, err := e.journey.AddXP(e.ctx, &model.AddXPRequest{Amount: 150})
	require.NoError(t, err)

	list, err := e.journey.GetNotifications(e.ctx, &model.GetNotificationsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	require.Equal(t, NotificationTypeLevelUp, list.Notifications[0].Type)
	require.False(t, list.Notifications[0].IsRead)

	_, err = e.journey.ReadNotification(e.ctx, &model.ReadNotificationRequest{ID: list.Notifications[0].ID})
	require.NoError(t, err)

	unread, err := e.notificationRepo.CountUnread(e.ctx, "patient1")
	require.NoError(t, err)
	require.EqualValues(t, 0, unread)

	_, err = e.journey.ReadNotification(e.ctx, &model.ReadNotificationRequest{ID: "no-such-id"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found notification"), err)
}

func Test_journeyDomain_CommunityFeed(t *testing.T) {
	e := newTestEngine("patient1")

	// Two level ups produce two anonymized posts.
	_, err := e.journey.AddXP(e.ctx, &model.AddXPRequest{Amount: 150})
	require.NoError(t, err)
	_, err = e.journey.AddXP(e.ctx, &model.AddXPRequest{Amount: 150})
	require.NoError(t, err)

	feed, err := e.journey.GetCommunityFeed(e.ctx, &model.GetCommunityFeedRequest{})
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)
	require.Equal(t, "RecoveryHero_ent1", feed.Posts[0].Author)

	before, err := e.progressRepo.Get(e.ctx, "patient1")
	require.NoError(t, err)

	_, err = e.journey.HighFivePost(e.ctx, &model.HighFivePostRequest{PostID: feed.Posts[0].ID})
	require.NoError(t, err)

	feed, err = e.journey.GetCommunityFeed(e.ctx, &model.GetCommunityFeedRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, feed.Posts[0].HighFives)

	after, err := e.progressRepo.Get(e.ctx, "patient1")
	require.NoError(t, err)
	require.Equal(t, before.TotalXPEarned+2, after.TotalXPEarned)

	_, err = e.journey.HighFivePost(e.ctx, &model.HighFivePostRequest{PostID: "no-such-post"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found post"), err)
}
