package email

import (
	"context"
	"time"
)

// InterviewInvite is everything the applicant needs to show up.
type InterviewInvite struct {
	ApplicantName  string
	ApplicantEmail string
	JobTitle       string
	CompanyName    string
	ScheduledAt    time.Time
	Location       string
	MeetingLink    string
	Description    string
}

// Mailer sends transactional mail. Callers treat failures as non-fatal.
type Mailer interface {
	SendInterviewInvite(ctx context.Context, invite InterviewInvite) error
}

// SMTPConfig holds the outbound SMTP settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}
