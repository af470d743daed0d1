package entity

import (
	"context"

	"github.com/bprlabs/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&PatientProgress{},
		&Mission{},
		&PatientBadge{},
		&JourneyNotification{},
		&CommunityPost{},
		&QuizResult{},
	)
}
