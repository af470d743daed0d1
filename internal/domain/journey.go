package domain

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bprlabs/backend/internal/client"
	"github.com/bprlabs/backend/internal/domain/progression"
	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/internal/model"
	"github.com/bprlabs/backend/internal/repository"
	"github.com/bprlabs/backend/pkg/dateutil"
	"github.com/bprlabs/backend/pkg/errorx"
	"github.com/bprlabs/backend/pkg/xcontext"
)

type JourneyDomain interface {
	GetJourney(ctx context.Context, req *model.GetJourneyRequest) (*model.GetJourneyResponse, error)
	AddXP(ctx context.Context, req *model.AddXPRequest) (*model.AddXPResponse, error)
	CompleteMissionTask(ctx context.Context, req *model.CompleteMissionTaskRequest) (*model.CompleteMissionTaskResponse, error)
	MarkActive(ctx context.Context, req *model.MarkActiveRequest) (*model.MarkActiveResponse, error)
	GetNotifications(ctx context.Context, req *model.GetNotificationsRequest) (*model.GetNotificationsResponse, error)
	ReadNotification(ctx context.Context, req *model.ReadNotificationRequest) (*model.ReadNotificationResponse, error)
	ReadAllNotifications(ctx context.Context, req *model.ReadNotificationRequest) (*model.ReadNotificationResponse, error)
	GetCommunityFeed(ctx context.Context, req *model.GetCommunityFeedRequest) (*model.GetCommunityFeedResponse, error)
	HighFivePost(ctx context.Context, req *model.HighFivePostRequest) (*model.HighFivePostResponse, error)
	SubmitQuizResult(ctx context.Context, req *model.SubmitQuizResultRequest) (*model.SubmitQuizResultResponse, error)
}

type journeyDomain struct {
	progressRepo      repository.PatientProgressRepository
	missionRepo       repository.MissionRepository
	badgeRepo         repository.PatientBadgeRepository
	notificationRepo  repository.JourneyNotificationRepository
	communityPostRepo repository.CommunityPostRepository
	quizResultRepo    repository.QuizResultRepository
	badgeManager      BadgeManager
	fanout            FanoutService
	protocolCaller    client.ProtocolCaller
	assessmentCaller  client.AssessmentCaller
}

func NewJourneyDomain(
	progressRepo repository.PatientProgressRepository,
	missionRepo repository.MissionRepository,
	badgeRepo repository.PatientBadgeRepository,
	notificationRepo repository.JourneyNotificationRepository,
	communityPostRepo repository.CommunityPostRepository,
	quizResultRepo repository.QuizResultRepository,
	badgeManager BadgeManager,
	fanout FanoutService,
	protocolCaller client.ProtocolCaller,
	assessmentCaller client.AssessmentCaller,
) *journeyDomain {
	return &journeyDomain{
		progressRepo:      progressRepo,
		missionRepo:       missionRepo,
		badgeRepo:         badgeRepo,
		notificationRepo:  notificationRepo,
		communityPostRepo: communityPostRepo,
		quizResultRepo:    quizResultRepo,
		badgeManager:      badgeManager,
		fanout:            fanout,
		protocolCaller:    protocolCaller,
		assessmentCaller:  assessmentCaller,
	}
}

func (d *journeyDomain) GetJourney(
	ctx context.Context, req *model.GetJourneyRequest,
) (*model.GetJourneyResponse, error) {
	patientID := xcontext.RequestUserID(ctx)

	progress, err := d.progressRepo.Ensure(ctx, patientID, "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot ensure progress of %s: %v", patientID, err)
		return nil, errorx.Unknown
	}

	// A streak that skipped a full day is already broken; reflect that on
	// read instead of waiting for the next activity ping.
	if progress.StreakDays > 0 && progress.LastActiveDate.Valid {
		if dateutil.DiffDays(dateutil.Day(progress.LastActiveDate.Time), dateutil.Day(time.Now())) > 1 {
			if err := d.progressRepo.ResetStreak(ctx, patientID); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot reset streak of %s: %v", patientID, err)
				return nil, errorx.Unknown
			}

			progress.StreakDays = 0
		}
	}

	missions, _, err := ensureWeeklyMissions(ctx, d.missionRepo, progress)
	if err != nil {
		return nil, err
	}

	badges, err := d.badgeRepo.GetByPatient(ctx, patientID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get badges of %s: %v", patientID, err)
		return nil, errorx.Unknown
	}

	unread, err := d.notificationRepo.CountUnread(ctx, patientID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count unread notifications of %s: %v", patientID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetJourneyResponse{
		Progress:            model.ConvertPatientProgress(progress),
		Badges:              model.ConvertBadges(badges),
		Ring:                d.recoveryRing(ctx, progress),
		UnreadNotifications: unread,
	}

	for _, m := range missions {
		resp.Missions = append(resp.Missions, model.ConvertMission(&m))
	}

	quiz, err := d.quizResultRepo.Latest(ctx, patientID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quiz result of %s: %v", patientID, err)
		return nil, errorx.Unknown
	}

	if quiz != nil {
		resp.Archetype = quiz.ArchetypeKey
	}

	return resp, nil
}

func (d *journeyDomain) AddXP(ctx context.Context, req *model.AddXPRequest) (*model.AddXPResponse, error) {
	patientID := xcontext.RequestUserID(ctx)

	xp := req.Amount
	if req.Type != "" {
		rewardXP, ok := progression.RewardXP(req.Type)
		if !ok {
			return nil, errorx.New(errorx.BadRequest, "Unknown reward type %s", req.Type)
		}

		xp = rewardXP
	}

	if xp <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid XP amount")
	}

	if _, err := d.progressRepo.Ensure(ctx, patientID, ""); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot ensure progress of %s: %v", patientID, err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	leveledUp, err := d.awardXP(ctx, patientID, xp)
	if err != nil {
		return nil, err
	}

	progress, err := d.progressRepo.Get(ctx, patientID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload progress of %s: %v", patientID, err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.AddXPResponse{
		AwardedXP:  xp,
		TotalXP:    progress.TotalXPEarned,
		Level:      progress.Level,
		LevelTitle: progress.LevelTitle,
		LeveledUp:  leveledUp,
		BPRCredits: progress.BPRCredits,
	}, nil
}

func (d *journeyDomain) CompleteMissionTask(
	ctx context.Context, req *model.CompleteMissionTaskRequest,
) (*model.CompleteMissionTaskResponse, error) {
	patientID := xcontext.RequestUserID(ctx)

	mission, err := d.missionRepo.GetByID(ctx, req.MissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission %s: %v", req.MissionID, err)
		return nil, errorx.Unknown
	}

	if mission.PatientID != patientID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	taskIndex := -1
	for i, task := range mission.Tasks {
		if task.Key == req.TaskKey {
			taskIndex = i
			break
		}
	}

	if taskIndex == -1 {
		return nil, errorx.New(errorx.NotFound, "Not found task %s", req.TaskKey)
	}

	if mission.Tasks[taskIndex].Completed {
		return nil, errorx.New(errorx.AlreadyExists, "This task was already completed")
	}

	mission.Tasks[taskIndex].Completed = true

	missionCompleted := true
	for _, task := range mission.Tasks {
		if !task.Completed {
			missionCompleted = false
			break
		}
	}

	completedAt := sql.NullTime{}
	if missionCompleted {
		completedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.missionRepo.UpdateTasks(ctx, mission.ID, mission.Tasks, completedAt); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update tasks of mission %s: %v", mission.ID, err)
		return nil, errorx.Unknown
	}

	awarded := mission.Tasks[taskIndex].XP
	if missionCompleted {
		awarded += mission.XPReward
	}

	if _, err := d.awardXP(ctx, patientID, awarded); err != nil {
		return nil, err
	}

	progress, err := d.progressRepo.Get(ctx, patientID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload progress of %s: %v", patientID, err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.CompleteMissionTaskResponse{
		AwardedXP:        awarded,
		MissionCompleted: missionCompleted,
		TotalXP:          progress.TotalXPEarned,
		Level:            progress.Level,
	}, nil
}

func (d *journeyDomain) MarkActive(
	ctx context.Context, req *model.MarkActiveRequest,
) (*model.MarkActiveResponse, error) {
	patientID := xcontext.RequestUserID(ctx)

	progress, err := d.progressRepo.Ensure(ctx, patientID, "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot ensure progress of %s: %v", patientID, err)
		return nil, errorx.Unknown
	}

	today := dateutil.Day(time.Now())
	if progress.LastActiveDate.Valid && dateutil.IsSameDay(progress.LastActiveDate.Time, today) {
		return &model.MarkActiveResponse{
			StreakDays:    progress.StreakDays,
			LongestStreak: progress.LongestStreak,
		}, nil
	}

	streak := 1
	if progress.LastActiveDate.Valid &&
		dateutil.DiffDays(dateutil.Day(progress.LastActiveDate.Time), today) == 1 {
		streak = progress.StreakDays + 1
	}

	longest := progress.LongestStreak
	if streak > longest {
		longest = streak
	}

	if err := d.progressRepo.UpdateStreak(ctx, patientID, streak, longest, today); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update streak of %s: %v", patientID, err)
		return nil, errorx.Unknown
	}

	clinicID := progress.ClinicID.String

	if _, err := d.badgeManager.Unlock(ctx, patientID, clinicID, "first_step"); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unlock first_step for %s: %v", patientID, err)
	}

	for _, milestone := range progression.StreakMilestones {
		if streak == milestone.Days {
			d.fanout.StreakMilestone(ctx, patientID, clinicID, streak)
			if xp, ok := progression.RewardXP(streakRewardType(streak)); ok {
				if _, err := d.awardXP(ctx, patientID, xp); err != nil {
					xcontext.Logger(ctx).Errorf("Cannot award streak reward to %s: %v", patientID, err)
				}
			}
		}
	}

	for range d.badgeManager.ScanStreak(ctx, patientID, clinicID, streak) {
		if xp, ok := progression.RewardXP("badge_unlocked"); ok {
			if _, err := d.awardXP(ctx, patientID, xp); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot award badge reward to %s: %v", patientID, err)
			}
		}
	}

	return &model.MarkActiveResponse{
		StreakDays:    streak,
		LongestStreak: longest,
		Extended:      true,
	}, nil
}

func (d *journeyDomain) GetNotifications(
	ctx context.Context, req *model.GetNotificationsRequest,
) (*model.GetNotificationsResponse, error) {
	patientID := xcontext.RequestUserID(ctx)

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	notifications, err := d.notificationRepo.GetList(ctx, patientID, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notifications of %s: %v", patientID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetNotificationsResponse{Notifications: []model.Notification{}}
	for _, n := range notifications {
		resp.Notifications = append(resp.Notifications, model.ConvertNotification(&n))
	}

	return resp, nil
}

func (d *journeyDomain) ReadNotification(
	ctx context.Context, req *model.ReadNotificationRequest,
) (*model.ReadNotificationResponse, error) {
	patientID := xcontext.RequestUserID(ctx)

	if err := d.notificationRepo.MarkRead(ctx, patientID, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found notification")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark notification %s as read: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	return &model.ReadNotificationResponse{}, nil
}

func (d *journeyDomain) ReadAllNotifications(
	ctx context.Context, req *model.ReadNotificationRequest,
) (*model.ReadNotificationResponse, error) {
	patientID := xcontext.RequestUserID(ctx)

	if err := d.notificationRepo.MarkAllRead(ctx, patientID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark notifications of %s as read: %v", patientID, err)
		return nil, errorx.Unknown
	}

	return &model.ReadNotificationResponse{}, nil
}

func (d *journeyDomain) GetCommunityFeed(
	ctx context.Context, req *model.GetCommunityFeedRequest,
) (*model.GetCommunityFeedResponse, error) {
	patientID := xcontext.RequestUserID(ctx)

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	clinicID := ""
	if progress, err := d.progressRepo.Get(ctx, patientID); err == nil {
		clinicID = progress.ClinicID.String
	}

	posts, err := d.communityPostRepo.GetRecent(ctx, clinicID, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community feed: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetCommunityFeedResponse{Posts: []model.CommunityPost{}}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, model.ConvertCommunityPost(&p))
	}

	return resp, nil
}

func (d *journeyDomain) HighFivePost(
	ctx context.Context, req *model.HighFivePostRequest,
) (*model.HighFivePostResponse, error) {
	patientID := xcontext.RequestUserID(ctx)

	if err := d.communityPostRepo.AddHighFive(ctx, req.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot high five post %s: %v", req.PostID, err)
		return nil, errorx.Unknown
	}

	if xp, ok := progression.RewardXP("community_high_five_given"); ok {
		if _, err := d.awardXP(ctx, patientID, xp); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot award high five reward to %s: %v", patientID, err)
		}
	}

	return &model.HighFivePostResponse{}, nil
}

func (d *journeyDomain) SubmitQuizResult(
	ctx context.Context, req *model.SubmitQuizResultRequest,
) (*model.SubmitQuizResultResponse, error) {
	patientID := xcontext.RequestUserID(ctx)

	if req.ArchetypeKey == "" {
		return nil, errorx.New(errorx.BadRequest, "Not found archetype key")
	}

	progress, err := d.progressRepo.Ensure(ctx, patientID, "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot ensure progress of %s: %v", patientID, err)
		return nil, errorx.Unknown
	}

	err = d.quizResultRepo.Create(ctx, &entity.QuizResult{
		Base:         entity.Base{ID: uuid.NewString()},
		PatientID:    patientID,
		ClinicID:     progress.ClinicID,
		ArchetypeKey: req.ArchetypeKey,
		CompletedAt:  time.Now(),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create quiz result of %s: %v", patientID, err)
		return nil, errorx.Unknown
	}

	if _, err := d.badgeManager.Unlock(ctx, patientID, progress.ClinicID.String, "quiz_master"); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unlock quiz_master for %s: %v", patientID, err)
	}

	awarded := 0
	if xp, ok := progression.RewardXP("quiz_completed"); ok {
		awarded = xp
		if _, err := d.awardXP(ctx, patientID, xp); err != nil {
			return nil, err
		}
	}

	return &model.SubmitQuizResultResponse{AwardedXP: awarded}, nil
}

// awardXP applies an XP grant with its credit conversion, projects the level
// from the lifetime total and unlocks level badges. Badge unlocks grant their
// own XP, so the projection loops until nothing new unlocks.
func (d *journeyDomain) awardXP(ctx context.Context, patientID string, xp int) (bool, error) {
	if err := d.progressRepo.AddXP(ctx, patientID, xp, progression.CreditsFor(xp)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add xp to %s: %v", patientID, err)
		return false, errorx.Unknown
	}

	progress, err := d.progressRepo.Get(ctx, patientID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get progress of %s: %v", patientID, err)
		return false, errorx.Unknown
	}

	def := progression.LevelFor(progress.TotalXPEarned)
	if def.Level <= progress.Level {
		return false, nil
	}

	if err := d.progressRepo.UpdateLevel(ctx, patientID, def.Level, def.Title); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update level of %s: %v", patientID, err)
		return false, errorx.Unknown
	}

	clinicID := progress.ClinicID.String
	d.fanout.LevelUp(ctx, patientID, clinicID, def)

	for range d.badgeManager.ScanLevel(ctx, patientID, clinicID, def.Level) {
		if badgeXP, ok := progression.RewardXP("badge_unlocked"); ok {
			if _, err := d.awardXP(ctx, patientID, badgeXP); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot award badge reward to %s: %v", patientID, err)
			}
		}
	}

	return true, nil
}

// ensureWeeklyMissions creates this week's missions if they are missing. The
// bonus mission is gated on the level projected from lifetime XP, so a patient
// crossing the gate mid-week gets the bonus on their next journey read. Both
// the journey read and the cron generator go through here.
func ensureWeeklyMissions(
	ctx context.Context, missionRepo repository.MissionRepository, progress *entity.PatientProgress,
) ([]entity.Mission, int, error) {
	weekStart := dateutil.WeekStart(time.Now())

	missions, err := missionRepo.GetByWeek(ctx, progress.PatientID, weekStart)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get missions of %s: %v", progress.PatientID, err)
		return nil, 0, errorx.Unknown
	}

	cfg := xcontext.Configs(ctx).Journey
	level := progression.LevelFor(progress.TotalXPEarned).Level

	hasStandard, hasBonus := false, false
	for _, m := range missions {
		if m.IsBonus {
			hasBonus = true
		} else {
			hasStandard = true
		}
	}

	created := 0
	if !hasStandard {
		err := missionRepo.Create(ctx, &entity.Mission{
			Base:      entity.Base{ID: uuid.NewString()},
			PatientID: progress.PatientID,
			ClinicID:  progress.ClinicID,
			WeekStart: weekStart,
			Tasks:     progression.StandardMissionTasks(),
			XPReward:  cfg.StandardMissionReward,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create standard mission of %s: %v", progress.PatientID, err)
			return nil, 0, errorx.Unknown
		}

		created++
	}

	if !hasBonus && level >= cfg.BonusMissionMinLevel {
		err := missionRepo.Create(ctx, &entity.Mission{
			Base:      entity.Base{ID: uuid.NewString()},
			PatientID: progress.PatientID,
			ClinicID:  progress.ClinicID,
			WeekStart: weekStart,
			IsBonus:   true,
			Tasks:     progression.BonusMissionTasks(),
			XPReward:  cfg.BonusMissionReward,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create bonus mission of %s: %v", progress.PatientID, err)
			return nil, 0, errorx.Unknown
		}

		created++
	}

	if created == 0 {
		return missions, 0, nil
	}

	missions, err = missionRepo.GetByWeek(ctx, progress.PatientID, weekStart)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload missions of %s: %v", progress.PatientID, err)
		return nil, 0, errorx.Unknown
	}

	return missions, created, nil
}

// recoveryRing degrades gracefully: a collaborator outage zeroes or defaults
// the affected segment instead of failing the journey read.
func (d *journeyDomain) recoveryRing(ctx context.Context, progress *entity.PatientProgress) model.RecoveryRing {
	ring := model.RecoveryRing{
		Consistency: int(math.Min(100, math.Round(float64(progress.StreakDays)/7*100))),
		Wellbeing:   50,
	}

	exercises, err := d.protocolCaller.HomeExercises(ctx, progress.PatientID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get home exercises of %s: %v", progress.PatientID, err)
	} else if len(exercises) > 0 {
		completed := 0
		for _, e := range exercises {
			if e.Completed {
				completed++
			}
		}

		ring.Exercise = int(math.Round(float64(completed) / float64(len(exercises)) * 100))
	}

	score, err := d.assessmentCaller.LatestScore(ctx, progress.PatientID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get assessment score of %s: %v", progress.PatientID, err)
	} else if score != nil {
		// The assessment service owns the scale; clamp so a bad value cannot
		// overflow the ring.
		ring.Wellbeing = min(100, max(0, *score))
	}

	return ring
}

func streakRewardType(days int) string {
	switch days {
	case 3:
		return "streak_3_days"
	case 7:
		return "streak_7_days"
	case 14:
		return "streak_14_days"
	case 30:
		return "streak_30_days"
	default:
		return ""
	}
}
