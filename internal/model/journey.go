package model

import "github.com/bprlabs/backend/internal/domain/progression"

type PatientProgress struct {
	PatientID      string `json:"patient_id"`
	TotalXPEarned  int    `json:"total_xp_earned"`
	XP             int    `json:"xp"`
	Level          int    `json:"level"`
	LevelTitle     string `json:"level_title"`
	LevelTitlePt   string `json:"level_title_pt"`
	AvatarStage    int    `json:"avatar_stage"`
	StreakDays     int    `json:"streak_days"`
	LongestStreak  int    `json:"longest_streak"`
	LastActiveDate string `json:"last_active_date,omitempty"`
	BPRCredits     int    `json:"bpr_credits"`

	CurrentLevelXP int                   `json:"current_level_xp"`
	NextLevelXP    int                   `json:"next_level_xp"`
	NextLevel      *progression.LevelDef `json:"next_level,omitempty"`
}

type MissionTask struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	LabelPt   string `json:"label_pt"`
	Completed bool   `json:"completed"`
	XP        int    `json:"xp"`
}

type Mission struct {
	ID          string        `json:"id"`
	WeekStart   string        `json:"week_start"`
	IsBonus     bool          `json:"is_bonus"`
	Tasks       []MissionTask `json:"tasks"`
	XPReward    int           `json:"xp_reward"`
	CompletedAt string        `json:"completed_at,omitempty"`
}

type Badge struct {
	Key        string `json:"key"`
	Emoji      string `json:"emoji"`
	Label      string `json:"label"`
	LabelPt    string `json:"label_pt"`
	Category   string `json:"category"`
	Unlocked   bool   `json:"unlocked"`
	UnlockedAt string `json:"unlocked_at,omitempty"`
}

// RecoveryRing is the three-segment daily ring. Each value is 0-100.
type RecoveryRing struct {
	Exercise    int `json:"exercise"`
	Consistency int `json:"consistency"`
	Wellbeing   int `json:"wellbeing"`
}

type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	ActionURL string `json:"action_url,omitempty"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

type CommunityPost struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	HighFives int    `json:"high_fives"`
	CreatedAt string `json:"created_at"`
}

type GetJourneyRequest struct{}

type GetJourneyResponse struct {
	Progress            PatientProgress `json:"progress"`
	Missions            []Mission       `json:"missions"`
	Badges              []Badge         `json:"badges"`
	Ring                RecoveryRing    `json:"ring"`
	UnreadNotifications int64           `json:"unread_notifications"`
	Archetype           string          `json:"archetype,omitempty"`
}

type AddXPRequest struct {
	Type   string `json:"type"`
	Amount int    `json:"amount"`
}

type AddXPResponse struct {
	AwardedXP  int    `json:"awarded_xp"`
	TotalXP    int    `json:"total_xp"`
	Level      int    `json:"level"`
	LevelTitle string `json:"level_title"`
	LeveledUp  bool   `json:"leveled_up"`
	BPRCredits int    `json:"bpr_credits"`
}

type CompleteMissionTaskRequest struct {
	MissionID string `json:"mission_id"`
	TaskKey   string `json:"task_key"`
}

type CompleteMissionTaskResponse struct {
	AwardedXP        int  `json:"awarded_xp"`
	MissionCompleted bool `json:"mission_completed"`
	TotalXP          int  `json:"total_xp"`
	Level            int  `json:"level"`
}

type MarkActiveRequest struct{}

type MarkActiveResponse struct {
	StreakDays    int  `json:"streak_days"`
	LongestStreak int  `json:"longest_streak"`
	Extended      bool `json:"extended"`
}

type GetNotificationsRequest struct {
	Limit int `form:"limit" json:"limit"`
}

type GetNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type ReadNotificationRequest struct {
	ID string `json:"id"`
}

type ReadNotificationResponse struct{}

type GetCommunityFeedRequest struct {
	Limit int `form:"limit" json:"limit"`
}

type GetCommunityFeedResponse struct {
	Posts []CommunityPost `json:"posts"`
}

type HighFivePostRequest struct {
	PostID string `json:"post_id"`
}

type HighFivePostResponse struct{}

type SubmitQuizResultRequest struct {
	ArchetypeKey string `json:"archetype_key"`
}

type SubmitQuizResultResponse struct {
	AwardedXP int `json:"awarded_xp"`
}
