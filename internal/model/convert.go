package model

import (
	"time"

	"github.com/bprlabs/backend/internal/domain/progression"
	"github.com/bprlabs/backend/internal/entity"
)

func ConvertPatientProgress(p *entity.PatientProgress) PatientProgress {
	def := progression.LevelFor(p.TotalXPEarned)
	xpProgress := progression.XPToNext(p.TotalXPEarned)

	// Level and title are both projected from the lifetime total so a stale
	// cached level column can never render a mismatched pair.
	result := PatientProgress{
		PatientID:      p.PatientID,
		TotalXPEarned:  p.TotalXPEarned,
		XP:             p.XP,
		Level:          def.Level,
		LevelTitle:     def.Title,
		LevelTitlePt:   def.TitlePt,
		AvatarStage:    def.AvatarStage,
		StreakDays:     p.StreakDays,
		LongestStreak:  p.LongestStreak,
		BPRCredits:     p.BPRCredits,
		CurrentLevelXP: xpProgress.CurrentInLevel,
		NextLevelXP:    xpProgress.NeededForNext,
		NextLevel:      xpProgress.Next,
	}

	if p.LastActiveDate.Valid {
		result.LastActiveDate = p.LastActiveDate.Time.Format(time.RFC3339)
	}

	return result
}

func ConvertMission(m *entity.Mission) Mission {
	tasks := make([]MissionTask, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		tasks = append(tasks, MissionTask{
			Key:       t.Key,
			Label:     t.Label,
			LabelPt:   t.LabelPt,
			Completed: t.Completed,
			XP:        t.XP,
		})
	}

	result := Mission{
		ID:        m.ID,
		WeekStart: m.WeekStart.Format("2006-01-02"),
		IsBonus:   m.IsBonus,
		Tasks:     tasks,
		XPReward:  m.XPReward,
	}

	if m.CompletedAt.Valid {
		result.CompletedAt = m.CompletedAt.Time.Format(time.RFC3339)
	}

	return result
}

// ConvertBadges merges the full registry with the patient's unlocked rows so
// the client can render locked and unlocked badges from a single list.
func ConvertBadges(unlocked []entity.PatientBadge) []Badge {
	unlockedAt := map[string]time.Time{}
	for _, b := range unlocked {
		unlockedAt[b.BadgeKey] = b.UnlockedAt
	}

	registry := progression.BadgeRegistry()
	result := make([]Badge, 0, len(registry))
	for _, def := range registry {
		badge := Badge{
			Key:      def.Key,
			Emoji:    def.Emoji,
			Label:    def.Label,
			LabelPt:  def.LabelPt,
			Category: def.Category,
		}

		if at, ok := unlockedAt[def.Key]; ok {
			badge.Unlocked = true
			badge.UnlockedAt = at.Format(time.RFC3339)
		}

		result = append(result, badge)
	}

	return result
}

func ConvertNotification(n *entity.JourneyNotification) Notification {
	return Notification{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		ActionURL: n.ActionURL,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

func ConvertCommunityPost(p *entity.CommunityPost) CommunityPost {
	return CommunityPost{
		ID:        p.ID,
		Type:      p.Type,
		Content:   p.Content,
		Author:    p.AnonName,
		HighFives: p.HighFives,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}
