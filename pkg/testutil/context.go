package testutil

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bprlabs/backend/config"
	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/pkg/logger"
	"github.com/bprlabs/backend/pkg/xcontext"
)

// MockContext returns a context backed by an in-memory sqlite database with
// all tables migrated and test configs attached.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.ERROR))
	ctx = xcontext.WithConfigs(ctx, MockConfigs())

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		Auth: config.AuthConfigs{
			TokenSecret:     "secret",
			TokenExpiration: time.Minute,
			CronSecret:      "cron-secret",
		},
		Kafka: config.KafkaConfigs{Topic: "journey-events"},
		Journey: config.JourneyConfigs{
			BonusMissionMinLevel:  5,
			StandardMissionReward: 50,
			BonusMissionReward:    100,
			DashboardCacheTTL:     time.Minute,
		},
	}
}
