package progression

// BadgeDef describes one achievement in the registry. Rows in the badge table
// reference these by key; the registry itself is immutable at runtime.
type BadgeDef struct {
	Key      string `json:"key"`
	Emoji    string `json:"emoji"`
	Label    string `json:"label"`
	LabelPt  string `json:"label_pt"`
	Category string `json:"category"`
}

const (
	BadgeCategoryMilestone = "milestone"
	BadgeCategoryStreak    = "streak"
	BadgeCategoryClinical  = "clinical"
	BadgeCategorySocial    = "social"
	BadgeCategorySpecial   = "special"
)

var badgeRegistry = []BadgeDef{
	{Key: "first_step", Emoji: "🏅", Label: "First Step", LabelPt: "Primeiro Passo", Category: BadgeCategoryMilestone},
	{Key: "ten_exercises", Emoji: "💪", Label: "Strong Start", LabelPt: "Início Forte", Category: BadgeCategoryMilestone},
	{Key: "fifty_exercises", Emoji: "🏋️", Label: "Exercise Champion", LabelPt: "Campeão de Exercícios", Category: BadgeCategoryMilestone},
	{Key: "hundred_exercises", Emoji: "🌟", Label: "Century Club", LabelPt: "Clube dos Cem", Category: BadgeCategoryMilestone},
	{Key: "first_appointment", Emoji: "📅", Label: "First Visit", LabelPt: "Primeira Visita", Category: BadgeCategoryMilestone},
	{Key: "ten_sessions", Emoji: "🎓", Label: "Dedicated Patient", LabelPt: "Paciente Dedicado", Category: BadgeCategoryMilestone},
	{Key: "streak_3", Emoji: "🔥", Label: "3-Day Streak", LabelPt: "3 Dias Seguidos", Category: BadgeCategoryStreak},
	{Key: "streak_7", Emoji: "🔥", Label: "Weekly Warrior", LabelPt: "Guerreiro Semanal", Category: BadgeCategoryStreak},
	{Key: "streak_14", Emoji: "🔥", Label: "Fortnight Fighter", LabelPt: "Lutador Quinzenal", Category: BadgeCategoryStreak},
	{Key: "streak_30", Emoji: "🔥", Label: "Monthly Master", LabelPt: "Mestre Mensal", Category: BadgeCategoryStreak},
	{Key: "screening_done", Emoji: "✅", Label: "Health Check", LabelPt: "Check-up de Saúde", Category: BadgeCategoryClinical},
	{Key: "posture_master", Emoji: "🧘", Label: "Posture Master", LabelPt: "Mestre Postural", Category: BadgeCategoryClinical},
	{Key: "body_assessed", Emoji: "📊", Label: "Body Aware", LabelPt: "Corpo Consciente", Category: BadgeCategoryClinical},
	{Key: "pain_tracker", Emoji: "📉", Label: "Pain Tracker", LabelPt: "Rastreador de Dor", Category: BadgeCategoryClinical},
	{Key: "high_fiver", Emoji: "🙌", Label: "High Fiver", LabelPt: "Cumprimentador", Category: BadgeCategorySocial},
	{Key: "ambassador", Emoji: "🌟", Label: "BPR Ambassador", LabelPt: "Embaixador BPR", Category: BadgeCategorySocial},
	{Key: "quiz_master", Emoji: "🧬", Label: "Self-Aware", LabelPt: "Autoconhecimento", Category: BadgeCategorySpecial},
	{Key: "level_10", Emoji: "⭐", Label: "Rising Star", LabelPt: "Estrela em Ascensão", Category: BadgeCategorySpecial},
	{Key: "level_25", Emoji: "🏆", Label: "Elite Member", LabelPt: "Membro Elite", Category: BadgeCategorySpecial},
}

func BadgeRegistry() []BadgeDef {
	return badgeRegistry
}

func BadgeByKey(key string) (BadgeDef, bool) {
	for _, def := range badgeRegistry {
		if def.Key == key {
			return def, true
		}
	}

	return BadgeDef{}, false
}

// StreakMilestones are the streak lengths that unlock a badge, ascending.
var StreakMilestones = []struct {
	Days int
	Key  string
}{
	{Days: 3, Key: "streak_3"},
	{Days: 7, Key: "streak_7"},
	{Days: 14, Key: "streak_14"},
	{Days: 30, Key: "streak_30"},
}

// LevelMilestones are the levels that unlock a badge, ascending.
var LevelMilestones = []struct {
	Level int
	Key   string
}{
	{Level: 10, Key: "level_10"},
	{Level: 25, Key: "level_25"},
}
