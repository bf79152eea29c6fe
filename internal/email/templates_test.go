package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInvite(t *testing.T) {
	invite := InterviewInvite{
		ApplicantName:  "Ada",
		ApplicantEmail: "ada@example.com",
		JobTitle:       "Backend Engineer",
		CompanyName:    "Acme",
		ScheduledAt:    time.Date(2030, 5, 1, 14, 0, 0, 0, time.UTC),
		MeetingLink:    "https://meet.example.com/abc",
	}

	body, err := renderInvite(invite)
	require.NoError(t, err)

	assert.Contains(t, body, "Hi Ada")
	assert.Contains(t, body, "Backend Engineer")
	assert.Contains(t, body, "https://meet.example.com/abc")
	assert.Contains(t, body, "Wed, 01 May 2030 14:00 UTC")
	assert.NotContains(t, body, "Where:")
	assert.Equal(t, "Interview invitation: Backend Engineer at Acme", inviteSubject(invite))
}

func TestRenderInvite_EscapesHTML(t *testing.T) {
	body, err := renderInvite(InterviewInvite{JobTitle: "<script>x</script>", CompanyName: "Acme"})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "Hi there")
}

func TestSMTPMailer_RequiresRecipient(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25})
	err := m.SendInterviewInvite(context.Background(), InterviewInvite{JobTitle: "x"})
	assert.Error(t, err)
}
