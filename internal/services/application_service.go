package services

import (
	"context"
	"errors"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/metrics"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Interviews may be scheduled for "now" from a client whose clock runs slightly behind.
const scheduleClockSkew = time.Minute

type ApplicationService interface {
	Apply(db *gorm.DB, applicantID, jobID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error)
	// GetApplication marks the application viewed when a hirer opens it.
	GetApplication(db *gorm.DB, userID, applicationID string) (*dto.ApplicationResponse, error)
	ListJobApplications(db *gorm.DB, userID, jobID string) ([]*dto.ApplicationResponse, error)
	ListMyApplications(db *gorm.DB, applicantID string) ([]*dto.ApplicationResponse, error)

	Transition(db *gorm.DB, userID, applicationID string, target models.ApplicationStatus) (*dto.ApplicationResponse, error)
	MarkViewed(db *gorm.DB, userID, applicationID string) error
	// ScheduleInterview returns a result together with ErrInterviewStatusNotUpdated
	// when the interview was stored but the status move failed.
	ScheduleInterview(db *gorm.DB, userID, applicationID string, req *dto.ScheduleInterviewRequest) (*dto.ScheduleInterviewResult, error)
	LatestInterview(db *gorm.DB, userID, applicationID string) (*dto.InterviewResponse, error)
}

type applicationService struct {
	applicationRepo repositories.ApplicationRepository
	interviewRepo   repositories.InterviewRepository
	jobRepo         repositories.JobRepository
	mailer          email.Mailer
	access          companyAccess
	now             func() time.Time
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	interviewRepo repositories.InterviewRepository,
	jobRepo repositories.JobRepository,
	companyRepo repositories.CompanyRepository,
	mailer email.Mailer,
) ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		interviewRepo:   interviewRepo,
		jobRepo:         jobRepo,
		mailer:          mailer,
		access:          newCompanyAccess(companyRepo),
		now:             time.Now,
	}
}

// =======================
// Applying & reading
// =======================

func (s *applicationService) Apply(db *gorm.DB, applicantID, jobID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByIDWithCompany(db, jobID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperrors.ErrJobNotOpen
	}

	member, err := s.access.isMember(db, applicantID, job.Company)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if member {
		return nil, apperrors.ErrCannotApplyToOwnJob
	}

	if _, err := s.applicationRepo.FindByJobAndApplicant(db, jobID, applicantID); err == nil {
		return nil, apperrors.ErrAlreadyApplied
	} else if !errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.InternalError(err)
	}

	now := s.now()
	application := &models.Application{
		JobID:           jobID,
		ApplicantID:     applicantID,
		Status:          models.ApplicationStatusApplied,
		StatusChangedAt: now,
		CoverNote:       req.CoverNote,
	}
	if err := s.applicationRepo.Create(db, application); err != nil {
		return nil, handleApplicationError(err)
	}

	application.Job = job
	metrics.ApplicationTransitions.WithLabelValues(string(models.ApplicationStatusApplied)).Inc()
	logger.CtxInfo(dbContext(db), "application submitted", "application_id", application.ID, "job_id", jobID)
	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) GetApplication(db *gorm.DB, userID, applicationID string) (*dto.ApplicationResponse, error) {
	application, err := s.applicationRepo.FindWithRelations(db, applicationID)
	if err != nil {
		return nil, handleApplicationError(err)
	}

	if application.ApplicantID == userID {
		return dto.NewApplicationResponse(application), nil
	}
	if application.Job == nil {
		return nil, apperrors.ErrJobNotFound
	}

	if _, err := s.access.require(db, userID, application.Job.CompanyID, auth.ActionView); err != nil {
		return nil, err
	}

	if application.Status == models.ApplicationStatusApplied {
		viewed, err := s.markViewed(db, application)
		if err != nil {
			// The page view must still render.
			logger.CtxWithError(dbContext(db), "auto mark viewed failed", err, "application_id", applicationID)
		} else if viewed {
			application.Status = models.ApplicationStatusViewed
			application.StatusChangedAt = s.now()
		}
	}

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) ListJobApplications(db *gorm.DB, userID, jobID string) ([]*dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	if _, err := s.access.require(db, userID, job.CompanyID, auth.ActionView); err != nil {
		return nil, err
	}

	applications, err := s.applicationRepo.FindByJob(db, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		applications[i].Job = job
		out = append(out, dto.NewApplicationResponse(&applications[i]))
	}
	return out, nil
}

func (s *applicationService) ListMyApplications(db *gorm.DB, applicantID string) ([]*dto.ApplicationResponse, error) {
	applications, err := s.applicationRepo.FindByApplicant(db, applicantID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		out = append(out, dto.NewApplicationResponse(&applications[i]))
	}
	return out, nil
}

// =======================
// Status machine
// =======================

func (s *applicationService) Transition(db *gorm.DB, userID, applicationID string, target models.ApplicationStatus) (*dto.ApplicationResponse, error) {
	if !target.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "Must be a valid application status"})
	}

	application, err := s.loadForHirer(db, userID, applicationID, auth.ActionEdit)
	if err != nil {
		return nil, err
	}

	current := application.Status
	if current.IsTerminal() {
		return nil, apperrors.ErrTerminalStatus.WithDetails(map[string]string{"status": string(current)})
	}
	if !current.CanTransitionTo(target) {
		return nil, apperrors.ErrInvalidTransition.WithDetails(map[string]string{
			"from": string(current),
			"to":   string(target),
		})
	}

	now := s.now()
	if err := s.moveStatus(db, application.ID, current, target, now); err != nil {
		return nil, err
	}

	application.Status = target
	application.StatusChangedAt = now
	logger.CtxInfo(dbContext(db), "application status changed", "application_id", applicationID,
		"from", current, "to", target)
	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) MarkViewed(db *gorm.DB, userID, applicationID string) error {
	application, err := s.loadForHirer(db, userID, applicationID, auth.ActionView)
	if err != nil {
		return err
	}
	_, err = s.markViewed(db, application)
	return err
}

// markViewed only ever moves applied to viewed. Any other status, including
// one set by a concurrent request, is left as is.
func (s *applicationService) markViewed(db *gorm.DB, application *models.Application) (bool, error) {
	if application.Status != models.ApplicationStatusApplied {
		return false, nil
	}

	ok, err := s.applicationRepo.UpdateStatus(db, application.ID,
		models.ApplicationStatusApplied, models.ApplicationStatusViewed, s.now())
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	if ok {
		metrics.ApplicationTransitions.WithLabelValues(string(models.ApplicationStatusViewed)).Inc()
	}
	return ok, nil
}

// moveStatus performs the conditional write. Zero affected rows means the
// status changed since it was read.
func (s *applicationService) moveStatus(db *gorm.DB, id string, from, to models.ApplicationStatus, at time.Time) error {
	ok, err := s.applicationRepo.UpdateStatus(db, id, from, to, at)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		return apperrors.ErrStatusConflict
	}
	metrics.ApplicationTransitions.WithLabelValues(string(to)).Inc()
	return nil
}

// =======================
// Interviews
// =======================

func (s *applicationService) ScheduleInterview(db *gorm.DB, userID, applicationID string, req *dto.ScheduleInterviewRequest) (*dto.ScheduleInterviewResult, error) {
	ctx := dbContext(db)
	now := s.now()

	if req.ScheduledAt.IsZero() || req.ScheduledAt.Before(now.Add(-scheduleClockSkew)) {
		return nil, apperrors.ErrInterviewInPast
	}

	application, err := s.loadForHirer(db, userID, applicationID, auth.ActionEdit)
	if err != nil {
		return nil, err
	}

	current := application.Status
	if current.IsTerminal() {
		return nil, apperrors.ErrTerminalStatus.WithDetails(map[string]string{"status": string(current)})
	}
	reschedule := current == models.ApplicationStatusInterview
	if !reschedule && !current.CanTransitionTo(models.ApplicationStatusInterview) {
		return nil, apperrors.ErrInvalidTransition.WithDetails(map[string]string{
			"from": string(current),
			"to":   string(models.ApplicationStatusInterview),
		})
	}

	interview := &models.Interview{
		ApplicationID: application.ID,
		ScheduledAt:   req.ScheduledAt.UTC(),
		Location:      req.Location,
		MeetingLink:   req.MeetingLink,
		Description:   req.Description,
		ScheduledBy:   userID,
	}
	if err := s.interviewRepo.Create(db, interview); err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := &dto.ScheduleInterviewResult{
		Interview:         dto.NewInterviewResponse(interview),
		ApplicationStatus: current,
		StatusUpdated:     reschedule,
	}

	if !reschedule {
		if err := s.moveStatus(db, application.ID, current, models.ApplicationStatusInterview, now); err != nil {
			logger.CtxWithError(ctx, "interview stored but status not updated", err,
				"application_id", applicationID, "interview_id", interview.ID)
			return result, apperrors.ErrInterviewStatusNotUpdated.
				WithDetails(map[string]string{"interview_id": interview.ID}).
				WithError(err)
		}
		result.ApplicationStatus = models.ApplicationStatusInterview
		result.StatusUpdated = true
	}

	logger.CtxInfo(ctx, "interview scheduled", "application_id", applicationID,
		"interview_id", interview.ID, "reschedule", reschedule)

	go s.sendInterviewInvite(context.WithoutCancel(ctx), application, interview)

	return result, nil
}

func (s *applicationService) LatestInterview(db *gorm.DB, userID, applicationID string) (*dto.InterviewResponse, error) {
	application, err := s.applicationRepo.FindWithRelations(db, applicationID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	if application.ApplicantID != userID {
		if application.Job == nil {
			return nil, apperrors.ErrJobNotFound
		}
		if _, err := s.access.require(db, userID, application.Job.CompanyID, auth.ActionView); err != nil {
			return nil, err
		}
	}

	interview, err := s.interviewRepo.FindLatestByApplication(db, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrInterviewNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewInterviewResponse(interview), nil
}

// sendInterviewInvite is best effort. Failures are logged and counted only.
func (s *applicationService) sendInterviewInvite(ctx context.Context, application *models.Application, interview *models.Interview) {
	defer func() {
		if r := recover(); r != nil {
			metrics.InterviewEmails.WithLabelValues("error").Inc()
			logger.CtxError(ctx, "interview invite panicked", "panic", r, "interview_id", interview.ID)
		}
	}()

	if s.mailer == nil || application.Applicant == nil {
		metrics.InterviewEmails.WithLabelValues("skipped").Inc()
		return
	}

	invite := email.InterviewInvite{
		ApplicantName:  application.Applicant.FullName,
		ApplicantEmail: application.Applicant.Email,
		ScheduledAt:    interview.ScheduledAt,
		Location:       deref(interview.Location),
		MeetingLink:    deref(interview.MeetingLink),
		Description:    deref(interview.Description),
	}
	if application.Job != nil {
		invite.JobTitle = application.Job.Title
		if application.Job.Company != nil {
			invite.CompanyName = application.Job.Company.Name
		}
	}

	err := s.mailer.SendInterviewInvite(ctx, invite)
	metrics.InterviewEmails.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		logger.CtxWithError(ctx, "interview invite not sent", err, "interview_id", interview.ID)
		return
	}
	logger.CtxInfo(ctx, "interview invite sent", "interview_id", interview.ID)
}

// =======================
// Helpers
// =======================

// loadForHirer resolves application -> job -> company and checks the
// caller's team role.
func (s *applicationService) loadForHirer(db *gorm.DB, userID, applicationID string, action auth.Action) (*models.Application, error) {
	application, err := s.applicationRepo.FindWithRelations(db, applicationID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	if application.Job == nil {
		return nil, apperrors.ErrJobNotFound
	}
	if _, err := s.access.require(db, userID, application.Job.CompanyID, action); err != nil {
		return nil, err
	}
	return application, nil
}

func handleApplicationError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return apperrors.ErrApplicationNotFound
	case errors.Is(err, repositories.ErrJobNotFound):
		return apperrors.ErrJobNotFound
	case errors.Is(err, repositories.ErrApplicationExists):
		return apperrors.ErrAlreadyApplied
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
