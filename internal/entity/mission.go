package entity

import (
	"database/sql"
	"time"
)

type MissionTask struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	LabelPt   string `json:"label_pt"`
	Completed bool   `json:"completed"`
	XP        int    `json:"xp"`
}

// Mission is a weekly task bundle. The composite unique index makes week
// generation idempotent under races: the losing inserter hits the constraint
// and falls back to reading the winner's row.
type Mission struct {
	Base

	PatientID string         `gorm:"uniqueIndex:idx_missions_patient_week"`
	ClinicID  sql.NullString `gorm:"index"`

	WeekStart time.Time `gorm:"uniqueIndex:idx_missions_patient_week"`
	IsBonus   bool      `gorm:"uniqueIndex:idx_missions_patient_week"`

	Tasks    Array[MissionTask]
	XPReward int

	CompletedAt sql.NullTime
}
