package email

import (
	"context"

	"jobboard_backend/internal/logger"
)

// LogMailer renders mail and writes it to the log. Used in development.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) SendInterviewInvite(ctx context.Context, invite InterviewInvite) error {
	body, err := renderInvite(invite)
	if err != nil {
		return err
	}
	logger.CtxInfo(ctx, "interview invite (not sent)",
		"to", invite.ApplicantEmail,
		"subject", inviteSubject(invite),
		"body_bytes", len(body),
	)
	return nil
}
