package domain

import (
	"context"
	"time"

	"github.com/bprlabs/backend/internal/domain/progression"
	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/internal/repository"
	"github.com/bprlabs/backend/pkg/xcontext"
)

// BadgeManager owns badge unlocks. Unlock is idempotent; the fan-out fires
// exactly once, on the call that actually created the row.
type BadgeManager interface {
	Unlock(ctx context.Context, patientID, clinicID, key string) (bool, error)
	ScanStreak(ctx context.Context, patientID, clinicID string, streakDays int) []progression.BadgeDef
	ScanLevel(ctx context.Context, patientID, clinicID string, level int) []progression.BadgeDef
}

type badgeManager struct {
	badgeRepo repository.PatientBadgeRepository
	fanout    FanoutService
}

func NewBadgeManager(badgeRepo repository.PatientBadgeRepository, fanout FanoutService) *badgeManager {
	return &badgeManager{badgeRepo: badgeRepo, fanout: fanout}
}

func (m *badgeManager) Unlock(ctx context.Context, patientID, clinicID, key string) (bool, error) {
	def, ok := progression.BadgeByKey(key)
	if !ok {
		xcontext.Logger(ctx).Warnf("Ignored unlock of unknown badge %s", key)
		return false, nil
	}

	created, err := m.badgeRepo.Create(ctx, &entity.PatientBadge{
		PatientID:  patientID,
		BadgeKey:   key,
		ClinicID:   entity.NullString(clinicID),
		UnlockedAt: time.Now(),
	})
	if err != nil {
		return false, err
	}

	if created {
		m.fanout.BadgeUnlocked(ctx, patientID, clinicID, def)
	}

	return created, nil
}

// ScanStreak unlocks every streak badge the current streak has reached.
// Returns the badges newly unlocked by this call.
func (m *badgeManager) ScanStreak(
	ctx context.Context, patientID, clinicID string, streakDays int,
) []progression.BadgeDef {
	var unlocked []progression.BadgeDef
	for _, milestone := range progression.StreakMilestones {
		if streakDays < milestone.Days {
			break
		}

		created, err := m.Unlock(ctx, patientID, clinicID, milestone.Key)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot unlock %s for %s: %v", milestone.Key, patientID, err)
			continue
		}

		if created {
			if def, ok := progression.BadgeByKey(milestone.Key); ok {
				unlocked = append(unlocked, def)
			}
		}
	}

	return unlocked
}

func (m *badgeManager) ScanLevel(
	ctx context.Context, patientID, clinicID string, level int,
) []progression.BadgeDef {
	var unlocked []progression.BadgeDef
	for _, milestone := range progression.LevelMilestones {
		if level < milestone.Level {
			break
		}

		created, err := m.Unlock(ctx, patientID, clinicID, milestone.Key)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot unlock %s for %s: %v", milestone.Key, patientID, err)
			continue
		}

		if created {
			if def, ok := progression.BadgeByKey(milestone.Key); ok {
				unlocked = append(unlocked, def)
			}
		}
	}

	return unlocked
}
