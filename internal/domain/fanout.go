package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/bprlabs/backend/internal/client"
	"github.com/bprlabs/backend/internal/domain/progression"
	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/internal/repository"
	"github.com/bprlabs/backend/pkg/pubsub"
	"github.com/bprlabs/backend/pkg/xcontext"
)

const (
	NotificationTypeLevelUp      = "level_up"
	NotificationTypeBadge        = "badge_unlocked"
	NotificationTypeStreakSaver  = "streak_reminder"
	NotificationTypeCongratulate = "streak_milestone"
)

// FanoutService spreads progression events to the notification inbox, the
// anonymized community feed and the event topic. Every delivery is best
// effort; failures are logged and never surface to the caller.
type FanoutService interface {
	LevelUp(ctx context.Context, patientID, clinicID string, def progression.LevelDef)
	BadgeUnlocked(ctx context.Context, patientID, clinicID string, def progression.BadgeDef)
	StreakMilestone(ctx context.Context, patientID, clinicID string, days int)
}

type fanoutService struct {
	notificationRepo  repository.JourneyNotificationRepository
	communityPostRepo repository.CommunityPostRepository
	userCaller        client.UserCaller
	publisher         pubsub.Publisher
}

func NewFanoutService(
	notificationRepo repository.JourneyNotificationRepository,
	communityPostRepo repository.CommunityPostRepository,
	userCaller client.UserCaller,
	publisher pubsub.Publisher,
) *fanoutService {
	return &fanoutService{
		notificationRepo:  notificationRepo,
		communityPostRepo: communityPostRepo,
		userCaller:        userCaller,
		publisher:         publisher,
	}
}

func (s *fanoutService) LevelUp(ctx context.Context, patientID, clinicID string, def progression.LevelDef) {
	title, message := "Level Up! 🎉", fmt.Sprintf("You reached Level %d: %s", def.Level, def.Title)
	if s.language(ctx, patientID) == "pt" {
		title = "Subiu de Nível! 🎉"
		message = fmt.Sprintf("Você alcançou o Nível %d: %s", def.Level, def.TitlePt)
	}

	s.notify(ctx, patientID, clinicID, NotificationTypeLevelUp, title, message, "/journey")
	s.post(ctx, patientID, clinicID, "level_up",
		fmt.Sprintf("🎉 Acabou de alcançar o Nível %d: %s!", def.Level, def.TitlePt))
	s.publish(ctx, patientID, "level_up", map[string]any{
		"level": def.Level,
		"title": def.Title,
	})
}

func (s *fanoutService) BadgeUnlocked(ctx context.Context, patientID, clinicID string, def progression.BadgeDef) {
	title := fmt.Sprintf("New Badge! %s", def.Emoji)
	message := fmt.Sprintf("You unlocked %s", def.Label)
	if s.language(ctx, patientID) == "pt" {
		title = fmt.Sprintf("Nova Conquista! %s", def.Emoji)
		message = fmt.Sprintf("Você desbloqueou %s", def.LabelPt)
	}

	s.notify(ctx, patientID, clinicID, NotificationTypeBadge, title, message, "/journey/badges")
	s.post(ctx, patientID, clinicID, "badge_unlocked",
		fmt.Sprintf("%s Desbloqueou a conquista %s!", def.Emoji, def.LabelPt))
	s.publish(ctx, patientID, "badge_unlocked", map[string]any{
		"badge":    def.Key,
		"category": def.Category,
	})
}

func (s *fanoutService) StreakMilestone(ctx context.Context, patientID, clinicID string, days int) {
	title := "Streak Milestone! 🔥"
	message := fmt.Sprintf("%d days in a row. Keep it going!", days)
	if s.language(ctx, patientID) == "pt" {
		title = "Marco de Sequência! 🔥"
		message = fmt.Sprintf("%d dias seguidos. Continue assim!", days)
	}

	s.notify(ctx, patientID, clinicID, NotificationTypeCongratulate, title, message, "/journey")
	s.publish(ctx, patientID, "streak_milestone", map[string]any{"days": days})
}

func (s *fanoutService) notify(
	ctx context.Context, patientID, clinicID, notificationType, title, message, actionURL string,
) {
	err := s.notificationRepo.Create(ctx, &entity.JourneyNotification{
		Base:      entity.Base{ID: uuid.NewString()},
		PatientID: patientID,
		ClinicID:  entity.NullString(clinicID),
		Type:      notificationType,
		Title:     title,
		Message:   message,
		ActionURL: actionURL,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create %s notification for %s: %v", notificationType, patientID, err)
	}
}

func (s *fanoutService) post(ctx context.Context, patientID, clinicID, postType, content string) {
	err := s.communityPostRepo.Create(ctx, &entity.CommunityPost{
		Base:      entity.Base{ID: uuid.NewString()},
		PatientID: patientID,
		ClinicID:  entity.NullString(clinicID),
		Type:      postType,
		Content:   content,
		IsAnon:    true,
		AnonName:  AnonName(patientID),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create %s community post for %s: %v", postType, patientID, err)
	}
}

func (s *fanoutService) publish(ctx context.Context, patientID, op string, data map[string]any) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"op":         op,
		"patient_id": patientID,
		"data":       data,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal %s event: %v", op, err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.Topic
	if err := s.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(patientID), Msg: payload}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish %s event: %v", op, err)
	}
}

func (s *fanoutService) language(ctx context.Context, patientID string) string {
	if lang := xcontext.Language(ctx); lang != "" {
		return lang
	}

	info, err := s.userCaller.Get(ctx, patientID)
	if err != nil || info == nil || info.Language == "" {
		return "pt"
	}

	return info.Language
}

// AnonName derives the stable pseudonym shown on community posts.
func AnonName(patientID string) string {
	suffix := patientID
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}

	return "RecoveryHero_" + suffix
}
