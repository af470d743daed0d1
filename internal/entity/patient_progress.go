package entity

import (
	"database/sql"
	"time"
)

// PatientProgress is the single contended row of the engagement engine. All
// counters are mutated through atomic single-statement updates, never through
// application-level read-modify-write.
type PatientProgress struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	PatientID string         `gorm:"primaryKey"`
	ClinicID  sql.NullString `gorm:"index"`

	// TotalXPEarned is the lifetime total and the authoritative input for the
	// level projection. XP is the secondary display counter incremented
	// alongside it.
	TotalXPEarned int
	XP            int

	Level      int `gorm:"default:1"`
	LevelTitle string

	StreakDays     int
	LongestStreak  int
	LastActiveDate sql.NullTime

	BPRCredits int
}
