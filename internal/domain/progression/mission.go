package progression

import "github.com/bprlabs/backend/internal/entity"

// StandardMissionTasks returns a fresh task list for the weekly standard
// mission. Callers own the slice; tasks start uncompleted.
func StandardMissionTasks() []entity.MissionTask {
	return []entity.MissionTask{
		{Key: "complete_exercises", Label: "Complete 2 exercises from Treatment Plan", LabelPt: "Complete 2 exercícios do Plano de Tratamento", XP: 20},
		{Key: "pain_checkin", Label: "Do a pain check-in", LabelPt: "Faça um check-in de dor", XP: 15},
		{Key: "read_article", Label: "Read 1 educational article", LabelPt: "Leia 1 artigo educativo", XP: 10},
	}
}

// BonusMissionTasks returns the task list for the level-gated bonus mission.
func BonusMissionTasks() []entity.MissionTask {
	return []entity.MissionTask{
		{Key: "body_assessment", Label: "Complete a body assessment", LabelPt: "Complete uma avaliação corporal", XP: 25},
		{Key: "community_high_five", Label: "Give 3 high fives in the community", LabelPt: "Dê 3 high fives na comunidade", XP: 10},
		{Key: "share_victory", Label: "Share a victory in the community", LabelPt: "Compartilhe uma vitória na comunidade", XP: 15},
	}
}
