package dto

import (
	"time"

	"jobboard_backend/internal/models"
)

type ApplyRequest struct {
	CoverNote *string `json:"cover_note,omitempty" validate:"omitempty,max=5000"`
}

type TransitionRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,is-application-status"`
}

type ScheduleInterviewRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Location    *string   `json:"location,omitempty" validate:"omitempty,max=500"`
	MeetingLink *string   `json:"meeting_link,omitempty" validate:"omitempty,url"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
}

type ApplicantSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type ApplicationResponse struct {
	ID              string                   `json:"id"`
	JobID           string                   `json:"job_id"`
	JobTitle        string                   `json:"job_title,omitempty"`
	CompanyName     string                   `json:"company_name,omitempty"`
	ApplicantID     string                   `json:"applicant_id"`
	Applicant       *ApplicantSummary        `json:"applicant,omitempty"`
	Status          models.ApplicationStatus `json:"status"`
	StatusChangedAt time.Time                `json:"status_changed_at"`
	CoverNote       *string                  `json:"cover_note,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}

type InterviewResponse struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Location      *string   `json:"location,omitempty"`
	MeetingLink   *string   `json:"meeting_link,omitempty"`
	Description   *string   `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ScheduleInterviewResult is returned on success and on partial failure,
// when StatusUpdated is false.
type ScheduleInterviewResult struct {
	Interview         *InterviewResponse       `json:"interview"`
	ApplicationStatus models.ApplicationStatus `json:"application_status"`
	StatusUpdated     bool                     `json:"status_updated"`
}

func NewApplicationResponse(a *models.Application) *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:              a.ID,
		JobID:           a.JobID,
		ApplicantID:     a.ApplicantID,
		Status:          a.Status,
		StatusChangedAt: a.StatusChangedAt,
		CoverNote:       a.CoverNote,
		CreatedAt:       a.CreatedAt,
	}
	if a.Job != nil {
		resp.JobTitle = a.Job.Title
		if a.Job.Company != nil {
			resp.CompanyName = a.Job.Company.Name
		}
	}
	if a.Applicant != nil {
		resp.Applicant = &ApplicantSummary{
			ID:       a.Applicant.ID,
			Email:    a.Applicant.Email,
			FullName: a.Applicant.FullName,
		}
	}
	return resp
}

func NewInterviewResponse(i *models.Interview) *InterviewResponse {
	return &InterviewResponse{
		ID:            i.ID,
		ApplicationID: i.ApplicationID,
		ScheduledAt:   i.ScheduledAt,
		Location:      i.Location,
		MeetingLink:   i.MeetingLink,
		Description:   i.Description,
		CreatedAt:     i.CreatedAt,
	}
}
