package main

import (
	"context"
	"net/http"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bprlabs/backend/config"
	"github.com/bprlabs/backend/internal/client"
	"github.com/bprlabs/backend/internal/domain"
	"github.com/bprlabs/backend/internal/entity"
	"github.com/bprlabs/backend/internal/model"
	"github.com/bprlabs/backend/internal/repository"
	"github.com/bprlabs/backend/pkg/jwt"
	"github.com/bprlabs/backend/pkg/kafka"
	"github.com/bprlabs/backend/pkg/logger"
	"github.com/bprlabs/backend/pkg/pubsub"
	"github.com/bprlabs/backend/pkg/router"
	"github.com/bprlabs/backend/pkg/xcontext"
	"github.com/bprlabs/backend/pkg/xredis"
)

type srv struct {
	app *cli.App

	ctx context.Context

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	tokenEngine *jwt.Engine[model.AccessToken]
	publisher   pubsub.Publisher
	redisClient xredis.Client

	clinicalCaller  *clinicalCallers
	generatorCaller client.TextGeneratorCaller

	progressRepo      repository.PatientProgressRepository
	missionRepo       repository.MissionRepository
	badgeRepo         repository.PatientBadgeRepository
	notificationRepo  repository.JourneyNotificationRepository
	communityPostRepo repository.CommunityPostRepository
	quizResultRepo    repository.QuizResultRepository

	fanout       domain.FanoutService
	badgeManager domain.BadgeManager

	journeyDomain   domain.JourneyDomain
	coachDomain     domain.CoachDomain
	statisticDomain domain.StatisticDomain
	triggerDomain   domain.TriggerDomain

	router *router.Router
	server *http.Server
}

// clinicalCallers groups the interfaces served by the single clinical
// platform client.
type clinicalCallers struct {
	client.ProtocolCaller
	client.AssessmentCaller
	client.AppointmentCaller
	client.UserCaller
}

func (s *srv) loadConfig(ct *cli.Context) {
	configs, err := config.Load(ct.String("config"))
	if err != nil {
		panic(err)
	}

	s.configs = configs
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	logLevel := gormlogger.Warn
	if s.configs.Database.LogLevel == "info" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                      s.configs.Database.ConnectionString(),
		DefaultStringSize:        256,
		DisableDatetimePrecision: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)})
	if err != nil {
		panic(err)
	}

	s.db = db
}

// loadContext builds the root context every request derives from.
func (s *srv) loadContext() {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithDB(ctx, s.db)
	s.ctx = ctx
}

func (s *srv) loadClients() {
	s.tokenEngine = jwt.NewEngine[model.AccessToken](
		s.configs.Auth.TokenSecret, s.configs.Auth.TokenExpiration)

	clinical := client.NewClinicalCaller()
	s.clinicalCaller = &clinicalCallers{
		ProtocolCaller:    clinical,
		AssessmentCaller:  clinical,
		AppointmentCaller: clinical,
		UserCaller:        clinical,
	}

	s.generatorCaller = client.NewTextGeneratorCaller()

	if s.configs.Kafka.Addr != "" {
		publisher, err := kafka.NewPublisher("journey-api", []string{s.configs.Kafka.Addr})
		if err != nil {
			panic(err)
		}

		s.publisher = publisher
	} else {
		s.logger.Warnf("No kafka address configured, events will not be published")
	}

	if s.configs.Redis.Addr != "" {
		redisClient, err := xredis.NewClient(s.ctx, s.configs.Redis.Addr)
		if err != nil {
			panic(err)
		}

		s.redisClient = redisClient
	} else {
		s.logger.Warnf("No redis address configured, dashboard caching is disabled")
	}
}

func (s *srv) loadRepos() {
	s.progressRepo = repository.NewPatientProgressRepository()
	s.missionRepo = repository.NewMissionRepository()
	s.badgeRepo = repository.NewPatientBadgeRepository()
	s.notificationRepo = repository.NewJourneyNotificationRepository()
	s.communityPostRepo = repository.NewCommunityPostRepository()
	s.quizResultRepo = repository.NewQuizResultRepository()
}

func (s *srv) loadDomains() {
	s.fanout = domain.NewFanoutService(
		s.notificationRepo, s.communityPostRepo, s.clinicalCaller, s.publisher)
	s.badgeManager = domain.NewBadgeManager(s.badgeRepo, s.fanout)

	s.journeyDomain = domain.NewJourneyDomain(
		s.progressRepo, s.missionRepo, s.badgeRepo, s.notificationRepo,
		s.communityPostRepo, s.quizResultRepo, s.badgeManager, s.fanout,
		s.clinicalCaller, s.clinicalCaller)
	s.coachDomain = domain.NewCoachDomain(
		s.progressRepo, s.badgeRepo, s.missionRepo,
		s.clinicalCaller, s.clinicalCaller, s.generatorCaller, s.redisClient)
	s.statisticDomain = domain.NewStatisticDomain(
		s.progressRepo, s.missionRepo, s.badgeRepo, s.communityPostRepo)
	s.triggerDomain = domain.NewTriggerDomain(
		s.progressRepo, s.missionRepo, s.notificationRepo, s.fanout)
}

func (s *srv) startMigrate(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadLogger()
	s.loadDatabase()
	s.loadContext()

	if err := entity.MigrateTable(s.ctx); err != nil {
		return err
	}

	s.logger.Infof("Migration completed")
	return nil
}
