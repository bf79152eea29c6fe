package email

import (
	"fmt"
	"html/template"
	"strings"
)

const interviewInviteTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <p>Hi {{.ApplicantName}},</p>
  <p><strong>{{.CompanyName}}</strong> would like to interview you for the
     <strong>{{.JobTitle}}</strong> position.</p>
  <p><strong>When:</strong> {{.When}}</p>
  {{- if .Location}}
  <p><strong>Where:</strong> {{.Location}}</p>
  {{- end}}
  {{- if .MeetingLink}}
  <p><strong>Link:</strong> <a href="{{.MeetingLink}}">{{.MeetingLink}}</a></p>
  {{- end}}
  {{- if .Description}}
  <p>{{.Description}}</p>
  {{- end}}
  <p>Good luck!</p>
</body>
</html>`

var inviteTpl = template.Must(template.New("interview_invite").Parse(interviewInviteTemplate))

func inviteSubject(invite InterviewInvite) string {
	return fmt.Sprintf("Interview invitation: %s at %s", invite.JobTitle, invite.CompanyName)
}

func renderInvite(invite InterviewInvite) (string, error) {
	name := invite.ApplicantName
	if name == "" {
		name = "there"
	}

	data := struct {
		InterviewInvite
		ApplicantName string
		When          string
	}{
		InterviewInvite: invite,
		ApplicantName:   name,
		When:            invite.ScheduledAt.UTC().Format("Mon, 02 Jan 2006 15:04 MST"),
	}

	var buf strings.Builder
	if err := inviteTpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render interview invite: %w", err)
	}
	return buf.String(), nil
}
