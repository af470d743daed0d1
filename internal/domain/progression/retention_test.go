package progression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Score_BestCase(t *testing.T) {
	snapshot := Score(Signals{
		DaysSinceActive:   0,
		StreakDays:        14,
		Level:             10,
		TotalXP:           3000,
		BadgeCount:        10,
		MissionsAssigned:  10,
		MissionsCompleted: 9,
	})

	require.Equal(t, 100, snapshot.Score)
	require.Equal(t, RiskLow, snapshot.Risk)
	require.Len(t, snapshot.Factors, 6)
}

func Test_Score_WorstCase(t *testing.T) {
	snapshot := Score(Signals{
		DaysSinceActive: NeverActive,
	})

	// Level and XP floor at 10 points each; everything else at 0.
	require.Equal(t, 3, snapshot.Score)
	require.Equal(t, RiskCritical, snapshot.Risk)
}

func Test_Score_Deterministic(t *testing.T) {
	signals := Signals{
		DaysSinceActive:   4,
		StreakDays:        5,
		Level:             4,
		TotalXP:           750,
		BadgeCount:        2,
		MissionsAssigned:  8,
		MissionsCompleted: 3,
	}

	first := Score(signals)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Score(signals))
	}
}

func Test_Score_RiskTiers(t *testing.T) {
	tiers := []struct {
		signals Signals
		risk    Risk
	}{
		{Signals{DaysSinceActive: 0, StreakDays: 14, Level: 10, TotalXP: 3000, BadgeCount: 10, MissionsAssigned: 1, MissionsCompleted: 1}, RiskLow},
		{Signals{DaysSinceActive: 7, StreakDays: 3, Level: 3, TotalXP: 500, BadgeCount: 1, MissionsAssigned: 4, MissionsCompleted: 1}, RiskMedium},
		{Signals{DaysSinceActive: 14, StreakDays: 1, Level: 2, TotalXP: 100, BadgeCount: 0}, RiskHigh},
		{Signals{DaysSinceActive: 60, StreakDays: 0, Level: 1, TotalXP: 0, BadgeCount: 0}, RiskCritical},
	}

	for _, tc := range tiers {
		require.Equal(t, tc.risk, Score(tc.signals).Risk, "signals=%+v", tc.signals)
	}
}

func Test_Score_MissionRateBuckets(t *testing.T) {
	base := Signals{DaysSinceActive: NeverActive}

	missionFactor := func(s Signals) float64 {
		snapshot := Score(s)
		for _, f := range snapshot.Factors {
			if f.Key == "missions" {
				return f.Contribution
			}
		}
		t.Fatal("missions factor missing")
		return 0
	}

	base.MissionsAssigned, base.MissionsCompleted = 10, 8
	require.InDelta(t, 10.0, missionFactor(base), 0.001)

	base.MissionsCompleted = 5
	require.InDelta(t, 7.0, missionFactor(base), 0.001)

	base.MissionsCompleted = 3
	require.InDelta(t, 4.0, missionFactor(base), 0.001)

	base.MissionsCompleted = 1
	require.InDelta(t, 2.0, missionFactor(base), 0.001)

	base.MissionsCompleted = 0
	require.InDelta(t, 0.0, missionFactor(base), 0.001)

	// No missions assigned at all is the lowest bucket, not an error.
	base.MissionsAssigned = 0
	require.InDelta(t, 0.0, missionFactor(base), 0.001)
}

func Test_RiskOrder(t *testing.T) {
	require.Less(t, RiskOrder(RiskCritical), RiskOrder(RiskHigh))
	require.Less(t, RiskOrder(RiskHigh), RiskOrder(RiskMedium))
	require.Less(t, RiskOrder(RiskMedium), RiskOrder(RiskLow))
}

func Test_BadgeRegistry(t *testing.T) {
	def, ok := BadgeByKey("streak_7")
	require.True(t, ok)
	require.Equal(t, BadgeCategoryStreak, def.Category)

	_, ok = BadgeByKey("nonexistent")
	require.False(t, ok)

	// Every streak and level milestone must resolve in the registry.
	for _, m := range StreakMilestones {
		_, ok := BadgeByKey(m.Key)
		require.True(t, ok, m.Key)
	}
	for _, m := range LevelMilestones {
		_, ok := BadgeByKey(m.Key)
		require.True(t, ok, m.Key)
	}
}
