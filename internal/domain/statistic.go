package domain

import (
	"context"
	"time"

	"github.com/bprlabs/backend/internal/domain/progression"
	"github.com/bprlabs/backend/internal/model"
	"github.com/bprlabs/backend/internal/repository"
	"github.com/bprlabs/backend/pkg/errorx"
	"github.com/bprlabs/backend/pkg/xcontext"
)

type StatisticDomain interface {
	GetJourneyStatistics(ctx context.Context, req *model.GetJourneyStatisticsRequest) (*model.GetJourneyStatisticsResponse, error)
}

type statisticDomain struct {
	progressRepo      repository.PatientProgressRepository
	missionRepo       repository.MissionRepository
	badgeRepo         repository.PatientBadgeRepository
	communityPostRepo repository.CommunityPostRepository
}

func NewStatisticDomain(
	progressRepo repository.PatientProgressRepository,
	missionRepo repository.MissionRepository,
	badgeRepo repository.PatientBadgeRepository,
	communityPostRepo repository.CommunityPostRepository,
) *statisticDomain {
	return &statisticDomain{
		progressRepo:      progressRepo,
		missionRepo:       missionRepo,
		badgeRepo:         badgeRepo,
		communityPostRepo: communityPostRepo,
	}
}

func (d *statisticDomain) GetJourneyStatistics(
	ctx context.Context, req *model.GetJourneyStatisticsRequest,
) (*model.GetJourneyStatisticsResponse, error) {
	patients, err := d.progressRepo.GetList(ctx, "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get patient progress list: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetJourneyStatisticsResponse{
		TotalPatients: int64(len(patients)),
		TopPatients:   []model.PatientProgress{},
		RecentBadges:  []model.Badge{},
	}

	levelSum, streakSum := 0, 0
	for i := range patients {
		levelSum += patients[i].Level
		streakSum += patients[i].StreakDays
		resp.TotalXPAwarded += int64(patients[i].TotalXPEarned)
	}

	if len(patients) > 0 {
		resp.AverageLevel = float64(levelSum) / float64(len(patients))
		resp.AverageStreak = float64(streakSum) / float64(len(patients))
	}

	assigned, err := d.missionRepo.Count(ctx, repository.MissionFilter{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count missions: %v", err)
		return nil, errorx.Unknown
	}

	completed, err := d.missionRepo.Count(ctx, repository.MissionFilter{OnlyCompleted: true})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count completed missions: %v", err)
		return nil, errorx.Unknown
	}

	if assigned > 0 {
		resp.MissionCompletionRate = float64(completed) / float64(assigned)
	}

	badges, err := d.badgeRepo.Count(ctx, repository.PatientBadgeFilter{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count badges: %v", err)
		return nil, errorx.Unknown
	}
	resp.TotalBadgesUnlocked = badges

	posts, err := d.communityPostRepo.Count(ctx, "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count community posts: %v", err)
		return nil, errorx.Unknown
	}
	resp.TotalCommunityPosts = posts

	top, err := d.progressRepo.GetTopByXP(ctx, "", 5)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get top patients: %v", err)
		return nil, errorx.Unknown
	}

	for i := range top {
		resp.TopPatients = append(resp.TopPatients, model.ConvertPatientProgress(&top[i]))
	}

	recent, err := d.badgeRepo.GetRecent(ctx, "", 10)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get recent badges: %v", err)
		return nil, errorx.Unknown
	}

	for _, row := range recent {
		def, ok := progression.BadgeByKey(row.BadgeKey)
		if !ok {
			continue
		}

		resp.RecentBadges = append(resp.RecentBadges, model.Badge{
			Key:        def.Key,
			Emoji:      def.Emoji,
			Label:      def.Label,
			LabelPt:    def.LabelPt,
			Category:   def.Category,
			Unlocked:   true,
			UnlockedAt: row.UnlockedAt.Format(time.RFC3339),
		})
	}

	return resp, nil
}
