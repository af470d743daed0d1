package entity

import (
	"database/sql"
	"time"
)

// PatientBadge rows are created once and never updated. The composite primary
// key is the uniqueness backstop for concurrent unlock attempts.
type PatientBadge struct {
	PatientID string         `gorm:"primaryKey"`
	BadgeKey  string         `gorm:"primaryKey"`
	ClinicID  sql.NullString `gorm:"index"`

	UnlockedAt time.Time
}
