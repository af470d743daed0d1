package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/internal/model"
	"github.com/bprlabs/backend/internal/repository"
	"github.com/bprlabs/backend/pkg/dateutil"
	"github.com/bprlabs/backend/pkg/errorx"
	"github.com/bprlabs/backend/pkg/xcontext"
)

// TriggerDomain hosts the scheduled engagement jobs. They are invoked by the
// cron endpoints and iterate the whole patient base, so per-patient failures
// are logged and skipped rather than aborting the run.
type TriggerDomain interface {
	StreakCheck(ctx context.Context, req *model.StreakCheckRequest) (*model.StreakCheckResponse, error)
	GenerateMissions(ctx context.Context, req *model.GenerateMissionsRequest) (*model.GenerateMissionsResponse, error)
}

type triggerDomain struct {
	progressRepo     repository.PatientProgressRepository
	missionRepo      repository.MissionRepository
	notificationRepo repository.JourneyNotificationRepository
	fanout           FanoutService
}

func NewTriggerDomain(
	progressRepo repository.PatientProgressRepository,
	missionRepo repository.MissionRepository,
	notificationRepo repository.JourneyNotificationRepository,
	fanout FanoutService,
) *triggerDomain {
	return &triggerDomain{
		progressRepo:     progressRepo,
		missionRepo:      missionRepo,
		notificationRepo: notificationRepo,
		fanout:           fanout,
	}
}

func (d *triggerDomain) StreakCheck(
	ctx context.Context, req *model.StreakCheckRequest,
) (*model.StreakCheckResponse, error) {
	patients, err := d.progressRepo.GetList(ctx, "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get patient progress list: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.StreakCheckResponse{}
	today := dateutil.Day(time.Now())

	for i := range patients {
		progress := &patients[i]
		resp.Checked++

		if !progress.LastActiveDate.Valid {
			continue
		}

		diff := dateutil.DiffDays(dateutil.Day(progress.LastActiveDate.Time), today)
		switch {
		case diff == 1 && progress.StreakDays > 0:
			// Active yesterday but not yet today. One more missed day breaks
			// the streak, so nudge once.
			sent, err := d.remindOnce(ctx, progress.PatientID, progress.ClinicID.String,
				NotificationTypeStreakSaver,
				"Sua sequência está em risco! 🔥",
				fmt.Sprintf("Você tem uma sequência de %d dias. Entre hoje para mantê-la!", progress.StreakDays),
				today)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot remind %s: %v", progress.PatientID, err)
				continue
			}

			if sent {
				resp.Reminded++
			}

		case diff > 1 && progress.StreakDays > 0:
			if err := d.progressRepo.ResetStreak(ctx, progress.PatientID); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot reset streak of %s: %v", progress.PatientID, err)
			}

		case diff == 0:
			for _, milestone := range []int{3, 7, 14, 30} {
				if progress.StreakDays != milestone {
					continue
				}

				exists, err := d.notificationRepo.ExistsSince(
					ctx, progress.PatientID, NotificationTypeCongratulate, today)
				if err != nil {
					xcontext.Logger(ctx).Errorf("Cannot check congratulation of %s: %v", progress.PatientID, err)
					break
				}

				if !exists {
					d.fanout.StreakMilestone(ctx, progress.PatientID, progress.ClinicID.String, milestone)
					resp.Congratulated++
				}
			}
		}
	}

	return resp, nil
}

func (d *triggerDomain) GenerateMissions(
	ctx context.Context, req *model.GenerateMissionsRequest,
) (*model.GenerateMissionsResponse, error) {
	patients, err := d.progressRepo.GetList(ctx, "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get patient progress list: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GenerateMissionsResponse{Patients: len(patients)}
	for i := range patients {
		_, created, err := ensureWeeklyMissions(ctx, d.missionRepo, &patients[i])
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot generate missions of %s: %v", patients[i].PatientID, err)
			continue
		}

		resp.Created += created
	}

	return resp, nil
}

func (d *triggerDomain) remindOnce(
	ctx context.Context, patientID, clinicID, notificationType, title, message string, since time.Time,
) (bool, error) {
	exists, err := d.notificationRepo.ExistsSince(ctx, patientID, notificationType, since)
	if err != nil {
		return false, err
	}

	if exists {
		return false, nil
	}

	err = d.notificationRepo.Create(ctx, &entity.JourneyNotification{
		Base:      entity.Base{ID: uuid.NewString()},
		PatientID: patientID,
		ClinicID:  entity.NullString(clinicID),
		Type:      notificationType,
		Title:     title,
		Message:   message,
		ActionURL: "/journey",
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
