package progression

import "math"

type Risk string

const (
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
)

// RiskOrder sorts critical first for the admin dashboard.
func RiskOrder(r Risk) int {
	switch r {
	case RiskCritical:
		return 0
	case RiskHigh:
		return 1
	case RiskMedium:
		return 2
	default:
		return 3
	}
}

// Signals are the six engagement inputs of the retention score. A patient who
// was never active carries NeverActive instead of a day count.
type Signals struct {
	DaysSinceActive   int
	StreakDays        int
	Level             int
	TotalXP           int
	BadgeCount        int
	MissionsAssigned  int
	MissionsCompleted int
}

// NeverActive is the recency value for patients without any recorded
// activity; it falls past every recency bucket.
const NeverActive = 999

type Factor struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	Value        int     `json:"value"`
	Weight       int     `json:"weight"`
	Contribution float64 `json:"contribution"`
}

type Snapshot struct {
	Score   int      `json:"score"`
	Factors []Factor `json:"factors"`
	Risk    Risk     `json:"risk"`
}

// Score combines six bucketed signals into a 0-100 churn-risk estimate. Pure
// and deterministic; it never touches persisted state.
func Score(s Signals) Snapshot {
	recency := bucket(s.DaysSinceActive, []threshold{
		{1, 100}, {3, 85}, {7, 65}, {14, 40}, {30, 20},
	}, 0, true)

	streak := bucket(s.StreakDays, []threshold{
		{14, 100}, {7, 80}, {3, 55}, {1, 30},
	}, 0, false)

	level := bucket(s.Level, []threshold{
		{10, 100}, {5, 75}, {3, 50}, {2, 30},
	}, 10, false)

	xp := bucket(s.TotalXP, []threshold{
		{3000, 100}, {1000, 75}, {500, 50}, {100, 30},
	}, 10, false)

	badges := bucket(s.BadgeCount, []threshold{
		{10, 100}, {5, 75}, {3, 50}, {1, 25},
	}, 0, false)

	missionRate := 0
	if s.MissionsAssigned > 0 {
		missionRate = int(math.Round(float64(s.MissionsCompleted) / float64(s.MissionsAssigned) * 100))
	}
	missions := 0
	switch {
	case missionRate >= 80:
		missions = 100
	case missionRate >= 50:
		missions = 70
	case missionRate >= 25:
		missions = 40
	case missionRate > 0:
		missions = 20
	}

	factors := []Factor{
		{Key: "recency", Label: "Last Active", Value: s.DaysSinceActive, Weight: 30, Contribution: float64(recency) * 0.30},
		{Key: "streak", Label: "Current Streak", Value: s.StreakDays, Weight: 20, Contribution: float64(streak) * 0.20},
		{Key: "level", Label: "Level", Value: s.Level, Weight: 15, Contribution: float64(level) * 0.15},
		{Key: "xp", Label: "Total XP", Value: s.TotalXP, Weight: 15, Contribution: float64(xp) * 0.15},
		{Key: "badges", Label: "Badges", Value: s.BadgeCount, Weight: 10, Contribution: float64(badges) * 0.10},
		{Key: "missions", Label: "Mission Rate", Value: missionRate, Weight: 10, Contribution: float64(missions) * 0.10},
	}

	total := 0.0
	for _, f := range factors {
		total += f.Contribution
	}

	score := int(math.Round(total))
	risk := RiskCritical
	switch {
	case score >= 70:
		risk = RiskLow
	case score >= 45:
		risk = RiskMedium
	case score >= 25:
		risk = RiskHigh
	}

	return Snapshot{Score: score, Factors: factors, Risk: risk}
}

type threshold struct {
	limit int
	score int
}

// bucket maps value to a sub-score. With ascending=true, thresholds are upper
// bounds checked smallest-first (recency); otherwise they are lower bounds
// checked largest-first.
func bucket(value int, thresholds []threshold, fallback int, ascending bool) int {
	if ascending {
		for _, t := range thresholds {
			if value <= t.limit {
				return t.score
			}
		}
	} else {
		for _, t := range thresholds {
			if value >= t.limit {
				return t.score
			}
		}
	}

	return fallback
}
