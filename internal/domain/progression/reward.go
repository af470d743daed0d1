package progression

// rewardTable fixes the XP value of every named reward type. Callers of the
// award-XP operation pass either one of these keys or an explicit amount.
var rewardTable = map[string]int{
	"complete_exercise":         10,
	"complete_daily_mission":    50,
	"complete_bonus_mission":    100,
	"pain_checkin":              15,
	"read_article":              10,
	"body_assessment":           25,
	"appointment_attended":      30,
	"quiz_completed":            50,
	"streak_3_days":             25,
	"streak_7_days":             75,
	"streak_14_days":            150,
	"streak_30_days":            300,
	"badge_unlocked":            20,
	"community_high_five_given": 2,
	"challenge_contributed":     5,
	"referral_completed":        200,
}

func RewardXP(rewardType string) (int, bool) {
	xp, ok := rewardTable[rewardType]
	return xp, ok
}

// CreditsFor converts awarded XP into loyalty credits.
func CreditsFor(xp int) int {
	return xp / 10
}
