package dto

import (
	"time"

	"jobboard_backend/internal/models"
)

type CreateJobRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"omitempty,max=20000"`
	Location    string `json:"location" validate:"omitempty,max=200"`
}

type ListJobsQuery struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type JobResponse struct {
	ID          string           `json:"id"`
	CompanyID   string           `json:"company_id"`
	CompanyName string           `json:"company_name,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Location    string           `json:"location,omitempty"`
	Status      models.JobStatus `json:"status"`
	PublishedAt *time.Time       `json:"published_at,omitempty"`
	ClosedAt    *time.Time       `json:"closed_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type JobListResponse struct {
	Jobs     []*JobResponse `json:"jobs"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

func NewJobResponse(j *models.Job) *JobResponse {
	resp := &JobResponse{
		ID:          j.ID,
		CompanyID:   j.CompanyID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		Status:      j.Status,
		PublishedAt: j.PublishedAt,
		ClosedAt:    j.ClosedAt,
		CreatedAt:   j.CreatedAt,
	}
	if j.Company != nil {
		resp.CompanyName = j.Company.Name
	}
	return resp
}
