package progression

// LevelDef is one row of the ascending XP threshold table. Titles carry an
// English and a Portuguese form; the avatar grows through five visual stages.
type LevelDef struct {
	Level       int    `json:"level"`
	Title       string `json:"title"`
	TitlePt     string `json:"title_pt"`
	XPRequired  int    `json:"xp_required"`
	AvatarStage int    `json:"avatar_stage"`
}

var levelTable = []LevelDef{
	{Level: 1, Title: "Recovery Starter", TitlePt: "Iniciante em Recuperação", XPRequired: 0, AvatarStage: 1},
	{Level: 2, Title: "First Steps", TitlePt: "Primeiros Passos", XPRequired: 100, AvatarStage: 1},
	{Level: 3, Title: "Recovery Warrior", TitlePt: "Guerreiro da Recuperação", XPRequired: 250, AvatarStage: 1},
	{Level: 4, Title: "Consistent Mover", TitlePt: "Movimento Consistente", XPRequired: 500, AvatarStage: 1},
	{Level: 5, Title: "Health Builder", TitlePt: "Construtor de Saúde", XPRequired: 800, AvatarStage: 1},
	{Level: 6, Title: "Rising Strong", TitlePt: "Fortalecendo", XPRequired: 1200, AvatarStage: 2},
	{Level: 7, Title: "Dedicated Healer", TitlePt: "Curador Dedicado", XPRequired: 1700, AvatarStage: 2},
	{Level: 8, Title: "Wellness Seeker", TitlePt: "Buscador de Bem-Estar", XPRequired: 2300, AvatarStage: 2},
	{Level: 9, Title: "Progress Champion", TitlePt: "Campeão de Progresso", XPRequired: 3000, AvatarStage: 2},
	{Level: 10, Title: "Elite Recoverer", TitlePt: "Recuperador de Elite", XPRequired: 3800, AvatarStage: 2},
	{Level: 15, Title: "Walking Tall", TitlePt: "De Pé Firme", XPRequired: 4700, AvatarStage: 3},
	{Level: 20, Title: "Rehab Warrior", TitlePt: "Guerreiro da Reabilitação", XPRequired: 6000, AvatarStage: 3},
	{Level: 25, Title: "Health Master", TitlePt: "Mestre da Saúde", XPRequired: 8000, AvatarStage: 3},
	{Level: 30, Title: "Movement Expert", TitlePt: "Especialista em Movimento", XPRequired: 10000, AvatarStage: 4},
	{Level: 40, Title: "Recovery Legend", TitlePt: "Lenda da Recuperação", XPRequired: 15000, AvatarStage: 4},
	{Level: 50, Title: "Unstoppable Force", TitlePt: "Força Imparável", XPRequired: 20000, AvatarStage: 4},
	{Level: 60, Title: "Peak Performer", TitlePt: "Desempenho Máximo", XPRequired: 28000, AvatarStage: 5},
	{Level: 75, Title: "BPR Champion", TitlePt: "Campeão BPR", XPRequired: 40000, AvatarStage: 5},
	{Level: 100, Title: "BPR Legend", TitlePt: "Lenda BPR", XPRequired: 60000, AvatarStage: 5},
}

// LevelFor maps lifetime XP to the highest table row whose threshold is
// reached. Total over all inputs; negative XP clamps to the first row.
func LevelFor(totalXP int) LevelDef {
	best := levelTable[0]
	for _, def := range levelTable {
		if totalXP >= def.XPRequired {
			best = def
		} else {
			break
		}
	}

	return best
}

type XPProgress struct {
	CurrentInLevel int       `json:"current_in_level"`
	NeededForNext  int       `json:"needed_for_next"`
	Next           *LevelDef `json:"next,omitempty"`
}

// XPToNext reports how far into the current level totalXP sits and how wide
// the current level is. At the end of the table NeededForNext is zero and Next
// is nil.
func XPToNext(totalXP int) XPProgress {
	current := LevelFor(totalXP)

	idx := 0
	for i, def := range levelTable {
		if def.Level == current.Level {
			idx = i
			break
		}
	}

	if idx == len(levelTable)-1 {
		return XPProgress{CurrentInLevel: totalXP - current.XPRequired}
	}

	next := levelTable[idx+1]
	return XPProgress{
		CurrentInLevel: totalXP - current.XPRequired,
		NeededForNext:  next.XPRequired - current.XPRequired,
		Next:           &next,
	}
}
