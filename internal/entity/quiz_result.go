package entity

import (
	"database/sql"
	"time"
)

// QuizResult is owned by the external quiz subsystem; the engine only passes
// the latest result through on the journey state read.
type QuizResult struct {
	Base

	PatientID string         `gorm:"index"`
	ClinicID  sql.NullString `gorm:"index"`

	ArchetypeKey string
	CompletedAt  time.Time
}
