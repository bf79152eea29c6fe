package services

import (
	"errors"
	"testing"
	"time"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"
	"jobboard_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type pipeline struct {
	db        *gorm.DB
	svc       *applicationService
	mailer    *fakeMailer
	owner     *models.User
	viewer    *models.User
	applicant *models.User
	company   *models.Company
	job       *models.Job
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	db := helpers.NewTestDB(t)
	mailer := &fakeMailer{}

	owner := helpers.CreateUser(t, db, "owner")
	viewer := helpers.CreateUser(t, db, "viewer")
	applicant := helpers.CreateUser(t, db, "applicant")
	company := helpers.CreateCompany(t, db, owner)
	helpers.AddMember(t, db, company, viewer, models.TeamRoleViewer)
	job := helpers.CreateJob(t, db, company, models.JobStatusOpen)

	svc := NewApplicationService(
		repositories.NewApplicationRepository(),
		repositories.NewInterviewRepository(),
		repositories.NewJobRepository(),
		repositories.NewCompanyRepository(),
		mailer,
	).(*applicationService)

	return &pipeline{db, svc, mailer, owner, viewer, applicant, company, job}
}

func TestApply(t *testing.T) {
	p := newPipeline(t)

	res, err := p.svc.Apply(p.db, p.applicant.ID, p.job.ID, &dto.ApplyRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApplied, res.Status)

	_, err = p.svc.Apply(p.db, p.applicant.ID, p.job.ID, &dto.ApplyRequest{})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)

	_, err = p.svc.Apply(p.db, p.viewer.ID, p.job.ID, &dto.ApplyRequest{})
	assert.ErrorIs(t, err, apperrors.ErrCannotApplyToOwnJob)

	draft := helpers.CreateJob(t, p.db, p.company, models.JobStatusDraft)
	_, err = p.svc.Apply(p.db, p.applicant.ID, draft.ID, &dto.ApplyRequest{})
	assert.ErrorIs(t, err, apperrors.ErrJobNotOpen)
}

func TestTransition_ForwardOnly(t *testing.T) {
	p := newPipeline(t)
	app := helpers.CreateApplication(t, p.db, p.job, p.applicant, models.ApplicationStatusShortlisted)

	_, err := p.svc.Transition(p.db, p.owner.ID, app.ID, models.ApplicationStatusViewed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = p.svc.Transition(p.db, p.owner.ID, app.ID, models.ApplicationStatusHired)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "hire requires an interview first")

	res, err := p.svc.Transition(p.db, p.owner.ID, app.ID, models.ApplicationStatusInterview)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusInterview, res.Status)
	assert.Equal(t, models.ApplicationStatusInterview, helpers.ReloadApplication(t, p.db, app.ID).Status)
}

func TestTransition_TerminalIsFinal(t *testing.T) {
	p := newPipeline(t)

	for _, terminal := range []models.ApplicationStatus{models.ApplicationStatusHired, models.ApplicationStatusRejected} {
		t.Run(string(terminal), func(t *testing.T) {
			applicant := helpers.CreateUser(t, p.db, "terminal")
			app := helpers.CreateApplication(t, p.db, p.job, applicant, terminal)

			for _, target := range models.AllApplicationStatuses() {
				_, err := p.svc.Transition(p.db, p.owner.ID, app.ID, target)
				assert.ErrorIs(t, err, apperrors.ErrTerminalStatus, "target %s", target)
			}
			assert.Equal(t, terminal, helpers.ReloadApplication(t, p.db, app.ID).Status)
		})
	}
}

func TestTransition_Permissions(t *testing.T) {
	p := newPipeline(t)
	app := helpers.CreateApplication(t, p.db, p.job, p.applicant, models.ApplicationStatusApplied)
	stranger := helpers.CreateUser(t, p.db, "stranger")

	_, err := p.svc.Transition(p.db, p.viewer.ID, app.ID, models.ApplicationStatusShortlisted)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	_, err = p.svc.Transition(p.db, stranger.ID, app.ID, models.ApplicationStatusShortlisted)
	assert.ErrorIs(t, err, apperrors.ErrNotCompanyMember)

	_, err = p.svc.Transition(p.db, p.applicant.ID, app.ID, models.ApplicationStatusHired)
	assert.Error(t, err)
}

func TestMarkViewed_Idempotent(t *testing.T) {
	p := newPipeline(t)
	app := helpers.CreateApplication(t, p.db, p.job, p.applicant, models.ApplicationStatusApplied)

	require.NoError(t, p.svc.MarkViewed(p.db, p.viewer.ID, app.ID))
	first := helpers.ReloadApplication(t, p.db, app.ID)
	assert.Equal(t, models.ApplicationStatusViewed, first.Status)

	require.NoError(t, p.svc.MarkViewed(p.db, p.viewer.ID, app.ID))
	second := helpers.ReloadApplication(t, p.db, app.ID)
	assert.Equal(t, models.ApplicationStatusViewed, second.Status)
	assert.True(t, first.StatusChangedAt.Equal(second.StatusChangedAt))

	later := helpers.CreateApplication(t, p.db, p.job, helpers.CreateUser(t, p.db, "later"), models.ApplicationStatusShortlisted)
	require.NoError(t, p.svc.MarkViewed(p.db, p.viewer.ID, later.ID))
	assert.Equal(t, models.ApplicationStatusShortlisted, helpers.ReloadApplication(t, p.db, later.ID).Status)
}

func TestGetApplication_HirerMarksViewed(t *testing.T) {
	p := newPipeline(t)
	app := helpers.CreateApplication(t, p.db, p.job, p.applicant, models.ApplicationStatusApplied)

	own, err := p.svc.GetApplication(p.db, p.applicant.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApplied, own.Status)

	res, err := p.svc.GetApplication(p.db, p.viewer.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusViewed, res.Status)
}

func TestGetApplication_ViewOnlyAccess(t *testing.T) {
	p := newPipeline(t)
	app := helpers.CreateApplication(t, p.db, p.job, p.applicant, models.ApplicationStatusApplied)
	stranger := helpers.CreateUser(t, p.db, "stranger")

	_, err := p.svc.GetApplication(p.db, stranger.ID, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotCompanyMember)
	assert.Equal(t, models.ApplicationStatusApplied, helpers.ReloadApplication(t, p.db, app.ID).Status)

	_, err = p.svc.Transition(p.db, p.viewer.ID, app.ID, models.ApplicationStatusViewed)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	assert.Equal(t, models.ApplicationStatusApplied, helpers.ReloadApplication(t, p.db, app.ID).Status)

	res, err := p.svc.GetApplication(p.db, p.viewer.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusViewed, res.Status)

	_, err = p.svc.Transition(p.db, p.viewer.ID, app.ID, models.ApplicationStatusShortlisted)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	assert.Equal(t, models.ApplicationStatusViewed, helpers.ReloadApplication(t, p.db, app.ID).Status)
}

func TestScheduleInterview(t *testing.T) {
	p := newPipeline(t)
	app := helpers.CreateApplication(t, p.db, p.job, p.applicant, models.ApplicationStatusShortlisted)
	link := "https://meet.test/abc"

	res, err := p.svc.ScheduleInterview(p.db, p.owner.ID, app.ID, &dto.ScheduleInterviewRequest{
		ScheduledAt: time.Now().Add(48 * time.Hour),
		MeetingLink: &link,
	})
	require.NoError(t, err)
	assert.True(t, res.StatusUpdated)
	assert.Equal(t, models.ApplicationStatusInterview, res.ApplicationStatus)
	assert.Equal(t, models.ApplicationStatusInterview, helpers.ReloadApplication(t, p.db, app.ID).Status)

	assert.Eventually(t, func() bool { return len(p.mailer.sent()) == 1 }, time.Second, 10*time.Millisecond)
	invite := p.mailer.sent()[0]
	assert.Equal(t, p.applicant.Email, invite.ApplicantEmail)
	assert.Equal(t, link, invite.MeetingLink)
	assert.Equal(t, p.job.Title, invite.JobTitle)

	latest, err := p.svc.LatestInterview(p.db, p.applicant.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Interview.ID, latest.ID)
}

func TestScheduleInterview_Reschedule(t *testing.T) {
	p := newPipeline(t)
	app := helpers.CreateApplication(t, p.db, p.job, p.applicant, models.ApplicationStatusInterview)

	res, err := p.svc.ScheduleInterview(p.db, p.owner.ID, app.ID, &dto.ScheduleInterviewRequest{
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, res.StatusUpdated)

	n, err := repositories.NewInterviewRepository().CountByApplication(p.db, app.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestScheduleInterview_Rejections(t *testing.T) {
	p := newPipeline(t)
	app := helpers.CreateApplication(t, p.db, p.job, p.applicant, models.ApplicationStatusViewed)

	_, err := p.svc.ScheduleInterview(p.db, p.owner.ID, app.ID, &dto.ScheduleInterviewRequest{
		ScheduledAt: time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrInterviewInPast)

	processing := helpers.CreateApplication(t, p.db, p.job, helpers.CreateUser(t, p.db, "late"), models.ApplicationStatusProcessing)
	_, err = p.svc.ScheduleInterview(p.db, p.owner.ID, processing.ID, &dto.ScheduleInterviewRequest{
		ScheduledAt: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	rejected := helpers.CreateApplication(t, p.db, p.job, helpers.CreateUser(t, p.db, "gone"), models.ApplicationStatusRejected)
	_, err = p.svc.ScheduleInterview(p.db, p.owner.ID, rejected.ID, &dto.ScheduleInterviewRequest{
		ScheduledAt: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrTerminalStatus)

	assert.Never(t, func() bool { return len(p.mailer.sent()) > 0 }, 50*time.Millisecond, 10*time.Millisecond)
}

func TestScheduleInterview_StatusNotUpdated(t *testing.T) {
	p := newPipeline(t)
	p.svc.applicationRepo = stuckStatusRepo{
		ApplicationRepository: p.svc.applicationRepo,
		err:                   errors.New("connection reset"),
	}
	app := helpers.CreateApplication(t, p.db, p.job, p.applicant, models.ApplicationStatusShortlisted)

	res, err := p.svc.ScheduleInterview(p.db, p.owner.ID, app.ID, &dto.ScheduleInterviewRequest{
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.ErrorIs(t, err, apperrors.ErrInterviewStatusNotUpdated)
	require.NotNil(t, res, "the stored interview is still reported")
	assert.False(t, res.StatusUpdated)
	assert.NotEmpty(t, res.Interview.ID)
	assert.Equal(t, models.ApplicationStatusShortlisted, helpers.ReloadApplication(t, p.db, app.ID).Status)
}

func TestListApplications(t *testing.T) {
	p := newPipeline(t)
	helpers.CreateApplication(t, p.db, p.job, p.applicant, models.ApplicationStatusApplied)
	helpers.CreateApplication(t, p.db, p.job, helpers.CreateUser(t, p.db, "second"), models.ApplicationStatusApplied)

	list, err := p.svc.ListJobApplications(p.db, p.viewer.ID, p.job.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	mine, err := p.svc.ListMyApplications(p.db, p.applicant.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
