package model

import "github.com/bprlabs/backend/internal/domain/progression"

type RetentionEntry struct {
	PatientID  string               `json:"patient_id"`
	Name       string               `json:"name,omitempty"`
	Score      int                  `json:"score"`
	Risk       progression.Risk     `json:"risk"`
	Factors    []progression.Factor `json:"factors"`
	Level      int                  `json:"level"`
	StreakDays int                  `json:"streak_days"`
	LastActive string               `json:"last_active,omitempty"`
}

type GetRetentionDashboardRequest struct{}

type GetRetentionDashboardResponse struct {
	Patients      []RetentionEntry `json:"patients"`
	AverageScore  int              `json:"average_score"`
	LowCount      int              `json:"low_count"`
	MediumCount   int              `json:"medium_count"`
	HighCount     int              `json:"high_count"`
	CriticalCount int              `json:"critical_count"`
}

type AnalyzePatientRequest struct {
	PatientID string `json:"patient_id"`
}

type AnalyzePatientResponse struct {
	Analysis string `json:"analysis"`
}

type SuggestCampaignRequest struct {
	PatientID string `json:"patient_id"`
}

type SuggestCampaignResponse struct {
	Campaign string `json:"campaign"`
}

type GetGeneralInsightsRequest struct{}

type GetGeneralInsightsResponse struct {
	Insights string `json:"insights"`
}

type GetJourneyStatisticsRequest struct{}

type GetJourneyStatisticsResponse struct {
	TotalPatients         int64   `json:"total_patients"`
	AverageLevel          float64 `json:"average_level"`
	AverageStreak         float64 `json:"average_streak"`
	TotalXPAwarded        int64   `json:"total_xp_awarded"`
	MissionCompletionRate float64 `json:"mission_completion_rate"`
	TotalBadgesUnlocked   int64   `json:"total_badges_unlocked"`
	TotalCommunityPosts   int64   `json:"total_community_posts"`

	TopPatients  []PatientProgress `json:"top_patients"`
	RecentBadges []Badge           `json:"recent_badges"`
}

type StreakCheckRequest struct{}

type StreakCheckResponse struct {
	Checked       int `json:"checked"`
	Reminded      int `json:"reminded"`
	Congratulated int `json:"congratulated"`
}

type GenerateMissionsRequest struct{}

type GenerateMissionsResponse struct {
	Patients int `json:"patients"`
	Created  int `json:"created"`
}
