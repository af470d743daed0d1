package entity

import "database/sql"

type JourneyNotification struct {
	Base

	PatientID string         `gorm:"index"`
	ClinicID  sql.NullString `gorm:"index"`

	Type      string `gorm:"index"`
	Title     string
	Message   string
	ActionURL string

	IsRead bool
}
