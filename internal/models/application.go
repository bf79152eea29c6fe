package models

import "time"

type Application struct {
	BaseModel
	JobID           string            `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_applicant" json:"job_id"`
	ApplicantID     string            `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_applicant;index" json:"applicant_id"`
	Status          ApplicationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	StatusChangedAt time.Time         `gorm:"not null" json:"status_changed_at"`
	CoverNote       *string           `gorm:"type:text" json:"cover_note,omitempty"`

	Job       *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Applicant *User `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
}

type Interview struct {
	BaseModel
	ApplicationID string    `gorm:"type:uuid;not null;index" json:"application_id"`
	ScheduledAt   time.Time `gorm:"not null" json:"scheduled_at"`
	Location      *string   `json:"location,omitempty"`
	MeetingLink   *string   `json:"meeting_link,omitempty"`
	Description   *string   `gorm:"type:text" json:"description,omitempty"`
	ScheduledBy   string    `gorm:"type:uuid" json:"scheduled_by"`
}
