package models

import "time"

type Job struct {
	BaseModel
	CompanyID   string     `gorm:"type:uuid;not null;index" json:"company_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Location    string     `json:"location,omitempty"`
	Status      JobStatus  `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedBy   string     `gorm:"type:uuid" json:"created_by"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}
