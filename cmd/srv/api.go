package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/bprlabs/backend/internal/middleware"
	"github.com/bprlabs/backend/pkg/router"
)

func (s *srv) startApi(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadLogger()
	s.loadDatabase()
	s.loadContext()
	s.loadClients()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.configs.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on port %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Use(middleware.WithLanguage())

	// Patient API
	patientRouter := s.router.Group("/")
	patientRouter.Use(middleware.Authenticate(s.tokenEngine))
	{
		router.GET(patientRouter, "/getJourney", s.journeyDomain.GetJourney)
		router.POST(patientRouter, "/addXP", s.journeyDomain.AddXP)
		router.POST(patientRouter, "/completeMissionTask", s.journeyDomain.CompleteMissionTask)
		router.POST(patientRouter, "/markActive", s.journeyDomain.MarkActive)
		router.GET(patientRouter, "/getNotifications", s.journeyDomain.GetNotifications)
		router.POST(patientRouter, "/readNotification", s.journeyDomain.ReadNotification)
		router.POST(patientRouter, "/readAllNotifications", s.journeyDomain.ReadAllNotifications)
		router.GET(patientRouter, "/getCommunityFeed", s.journeyDomain.GetCommunityFeed)
		router.POST(patientRouter, "/highFivePost", s.journeyDomain.HighFivePost)
		router.POST(patientRouter, "/submitQuizResult", s.journeyDomain.SubmitQuizResult)
	}

	// Admin API
	adminRouter := s.router.Group("/admin")
	adminRouter.Use(middleware.Authenticate(s.tokenEngine))
	adminRouter.Use(middleware.OnlyAdmin())
	{
		router.GET(adminRouter, "/getRetentionDashboard", s.coachDomain.GetRetentionDashboard)
		router.GET(adminRouter, "/getJourneyStatistics", s.statisticDomain.GetJourneyStatistics)
		router.GET(adminRouter, "/getGeneralInsights", s.coachDomain.GetGeneralInsights)
		router.POST(adminRouter, "/analyzePatient", s.coachDomain.AnalyzePatient)
		router.POST(adminRouter, "/suggestCampaign", s.coachDomain.SuggestCampaign)
	}

	// Cron API, called by the external scheduler.
	cronRouter := s.router.Group("/cron")
	cronRouter.Use(middleware.VerifyCronSecret())
	{
		router.POST(cronRouter, "/streakCheck", s.triggerDomain.StreakCheck)
		router.POST(cronRouter, "/generateMissions", s.triggerDomain.GenerateMissions)
	}
}
