package entity

import "database/sql"

type CommunityPost struct {
	Base

	PatientID string         `gorm:"index"`
	ClinicID  sql.NullString `gorm:"index"`

	Type    string
	Content string

	IsAnon   bool
	AnonName string

	HighFives int
}
