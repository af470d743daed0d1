package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/bprlabs/backend/internal/client"
	"github.com/bprlabs/backend/internal/domain/progression"
	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/internal/model"
	"github.com/bprlabs/backend/internal/repository"
	"github.com/bprlabs/backend/pkg/dateutil"
	"github.com/bprlabs/backend/pkg/errorx"
	"github.com/bprlabs/backend/pkg/xcontext"
	"github.com/bprlabs/backend/pkg/xredis"
)

const retentionDashboardCacheKey = "journey:retention_dashboard"

const coachSystemPrompt = "You are a patient retention specialist for a physiotherapy " +
	"platform. You receive engagement metrics of rehabilitation patients and answer " +
	"with short, actionable advice for the clinic team. Answer in Portuguese."

type CoachDomain interface {
	GetRetentionDashboard(ctx context.Context, req *model.GetRetentionDashboardRequest) (*model.GetRetentionDashboardResponse, error)
	AnalyzePatient(ctx context.Context, req *model.AnalyzePatientRequest) (*model.AnalyzePatientResponse, error)
	SuggestCampaign(ctx context.Context, req *model.SuggestCampaignRequest) (*model.SuggestCampaignResponse, error)
	GetGeneralInsights(ctx context.Context, req *model.GetGeneralInsightsRequest) (*model.GetGeneralInsightsResponse, error)
}

type coachDomain struct {
	progressRepo      repository.PatientProgressRepository
	badgeRepo         repository.PatientBadgeRepository
	missionRepo       repository.MissionRepository
	appointmentCaller client.AppointmentCaller
	userCaller        client.UserCaller
	generatorCaller   client.TextGeneratorCaller
	redisClient       xredis.Client
}

func NewCoachDomain(
	progressRepo repository.PatientProgressRepository,
	badgeRepo repository.PatientBadgeRepository,
	missionRepo repository.MissionRepository,
	appointmentCaller client.AppointmentCaller,
	userCaller client.UserCaller,
	generatorCaller client.TextGeneratorCaller,
	redisClient xredis.Client,
) *coachDomain {
	return &coachDomain{
		progressRepo:      progressRepo,
		badgeRepo:         badgeRepo,
		missionRepo:       missionRepo,
		appointmentCaller: appointmentCaller,
		userCaller:        userCaller,
		generatorCaller:   generatorCaller,
		redisClient:       redisClient,
	}
}

func (d *coachDomain) GetRetentionDashboard(
	ctx context.Context, req *model.GetRetentionDashboardRequest,
) (*model.GetRetentionDashboardResponse, error) {
	if d.redisClient != nil {
		var cached model.GetRetentionDashboardResponse
		err := d.redisClient.GetObj(ctx, retentionDashboardCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}

		if !errors.Is(err, xredis.ErrNotFound) {
			xcontext.Logger(ctx).Warnf("Cannot read retention dashboard cache: %v", err)
		}
	}

	patients, err := d.progressRepo.GetList(ctx, "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get patient progress list: %v", err)
		return nil, errorx.Unknown
	}

	names := map[string]string{}
	if infos, err := d.userCaller.GetActivePatients(ctx); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get patient names: %v", err)
	} else {
		for _, info := range infos {
			names[info.ID] = info.Name
		}
	}

	resp := &model.GetRetentionDashboardResponse{Patients: []model.RetentionEntry{}}
	totalScore := 0
	for i := range patients {
		entry, err := d.scorePatient(ctx, &patients[i])
		if err != nil {
			return nil, err
		}

		entry.Name = names[entry.PatientID]
		resp.Patients = append(resp.Patients, *entry)
		totalScore += entry.Score

		switch entry.Risk {
		case progression.RiskLow:
			resp.LowCount++
		case progression.RiskMedium:
			resp.MediumCount++
		case progression.RiskHigh:
			resp.HighCount++
		case progression.RiskCritical:
			resp.CriticalCount++
		}
	}

	if len(resp.Patients) > 0 {
		resp.AverageScore = int(math.Round(float64(totalScore) / float64(len(resp.Patients))))
	}

	slices.SortStableFunc(resp.Patients, func(a, b model.RetentionEntry) bool {
		if a.Risk != b.Risk {
			return progression.RiskOrder(a.Risk) < progression.RiskOrder(b.Risk)
		}

		return a.Score < b.Score
	})

	if d.redisClient != nil {
		ttl := xcontext.Configs(ctx).Journey.DashboardCacheTTL
		if err := d.redisClient.SetObj(ctx, retentionDashboardCacheKey, resp, ttl); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cache retention dashboard: %v", err)
		}
	}

	return resp, nil
}

func (d *coachDomain) AnalyzePatient(
	ctx context.Context, req *model.AnalyzePatientRequest,
) (*model.AnalyzePatientResponse, error) {
	prompt, err := d.patientPrompt(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	analysis, err := d.generatorCaller.Generate(ctx, coachSystemPrompt,
		prompt+"\n\nAnalyze this patient's engagement and list the top risk factors and next actions.")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate analysis of %s: %v", req.PatientID, err)
		return nil, errorx.New(errorx.Unavailable, "Analysis is temporarily unavailable")
	}

	return &model.AnalyzePatientResponse{Analysis: analysis}, nil
}

func (d *coachDomain) SuggestCampaign(
	ctx context.Context, req *model.SuggestCampaignRequest,
) (*model.SuggestCampaignResponse, error) {
	prompt, err := d.patientPrompt(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	campaign, err := d.generatorCaller.Generate(ctx, coachSystemPrompt,
		prompt+"\n\nWrite a short re-engagement message (WhatsApp style) for this patient.")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate campaign of %s: %v", req.PatientID, err)
		return nil, errorx.New(errorx.Unavailable, "Campaign suggestion is temporarily unavailable")
	}

	return &model.SuggestCampaignResponse{Campaign: campaign}, nil
}

func (d *coachDomain) GetGeneralInsights(
	ctx context.Context, req *model.GetGeneralInsightsRequest,
) (*model.GetGeneralInsightsResponse, error) {
	dashboard, err := d.GetRetentionDashboard(ctx, &model.GetRetentionDashboardRequest{})
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Patient base: %d patients, average retention score %d.\n",
		len(dashboard.Patients), dashboard.AverageScore)
	fmt.Fprintf(&b, "Risk tiers: %d low, %d medium, %d high, %d critical.\n",
		dashboard.LowCount, dashboard.MediumCount, dashboard.HighCount, dashboard.CriticalCount)

	insights, err := d.generatorCaller.Generate(ctx, coachSystemPrompt,
		b.String()+"\nSummarize the engagement health of this patient base and suggest three clinic-wide actions.")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate general insights: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Insights are temporarily unavailable")
	}

	return &model.GetGeneralInsightsResponse{Insights: insights}, nil
}

func (d *coachDomain) scorePatient(
	ctx context.Context, progress *entity.PatientProgress,
) (*model.RetentionEntry, error) {
	badgeCount, err := d.badgeRepo.Count(ctx, repository.PatientBadgeFilter{PatientID: progress.PatientID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count badges of %s: %v", progress.PatientID, err)
		return nil, errorx.Unknown
	}

	assigned, err := d.missionRepo.Count(ctx, repository.MissionFilter{PatientID: progress.PatientID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count missions of %s: %v", progress.PatientID, err)
		return nil, errorx.Unknown
	}

	completed, err := d.missionRepo.Count(ctx,
		repository.MissionFilter{PatientID: progress.PatientID, OnlyCompleted: true})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count completed missions of %s: %v", progress.PatientID, err)
		return nil, errorx.Unknown
	}

	daysSinceActive := progression.NeverActive
	lastActive := ""
	if progress.LastActiveDate.Valid {
		daysSinceActive = dateutil.DiffDays(dateutil.Day(progress.LastActiveDate.Time), dateutil.Day(time.Now()))
		lastActive = progress.LastActiveDate.Time.Format(time.RFC3339)
	}

	snapshot := progression.Score(progression.Signals{
		DaysSinceActive:   daysSinceActive,
		StreakDays:        progress.StreakDays,
		Level:             progress.Level,
		TotalXP:           progress.TotalXPEarned,
		BadgeCount:        int(badgeCount),
		MissionsAssigned:  int(assigned),
		MissionsCompleted: int(completed),
	})

	return &model.RetentionEntry{
		PatientID:  progress.PatientID,
		Score:      snapshot.Score,
		Risk:       snapshot.Risk,
		Factors:    snapshot.Factors,
		Level:      progress.Level,
		StreakDays: progress.StreakDays,
		LastActive: lastActive,
	}, nil
}

func (d *coachDomain) patientPrompt(ctx context.Context, patientID string) (string, error) {
	progress, err := d.progressRepo.Get(ctx, patientID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get progress of %s: %v", patientID, err)
		return "", errorx.New(errorx.NotFound, "Not found patient")
	}

	entry, err := d.scorePatient(ctx, progress)
	if err != nil {
		return "", err
	}

	appointments := 0
	if count, err := d.appointmentCaller.CountCompleted(ctx, patientID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot count appointments of %s: %v", patientID, err)
	} else {
		appointments = count
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Patient metrics:\n")
	fmt.Fprintf(&b, "- Retention score: %d (%s risk)\n", entry.Score, entry.Risk)
	fmt.Fprintf(&b, "- Level %d, %d XP lifetime\n", progress.Level, progress.TotalXPEarned)
	fmt.Fprintf(&b, "- Streak: %d days (longest %d)\n", progress.StreakDays, progress.LongestStreak)
	fmt.Fprintf(&b, "- Completed appointments: %d\n", appointments)
	if entry.LastActive != "" {
		fmt.Fprintf(&b, "- Last active: %s\n", entry.LastActive)
	} else {
		fmt.Fprintf(&b, "- Never active\n")
	}

	for _, f := range entry.Factors {
		fmt.Fprintf(&b, "- Factor %s: value %d, contributes %.1f of %d\n", f.Key, f.Value, f.Contribution, f.Weight)
	}

	return b.String(), nil
}
