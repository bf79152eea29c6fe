package services

import (
	"errors"
	"time"

	"jobboard_backend/database"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type JobService interface {
	CreateJob(db *gorm.DB, userID, companyID string, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	// PublishJob spends one job_post credit.
	PublishJob(db *gorm.DB, userID, jobID string) (*dto.JobResponse, error)
	CloseJob(db *gorm.DB, userID, jobID string) (*dto.JobResponse, error)
	GetJob(db *gorm.DB, userID, jobID string) (*dto.JobResponse, error)
	ListCompanyJobs(db *gorm.DB, userID, companyID string) ([]*dto.JobResponse, error)
	ListOpenJobs(db *gorm.DB, page, pageSize int) (*dto.JobListResponse, error)
}

type jobService struct {
	jobRepo repositories.JobRepository
	credits CreditService
	access  companyAccess
}

func NewJobService(
	jobRepo repositories.JobRepository,
	companyRepo repositories.CompanyRepository,
	credits CreditService,
) JobService {
	return &jobService{
		jobRepo: jobRepo,
		credits: credits,
		access:  newCompanyAccess(companyRepo),
	}
}

func (s *jobService) CreateJob(db *gorm.DB, userID, companyID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	company, err := s.access.require(db, userID, companyID, auth.ActionEdit)
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		CompanyID:   companyID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Status:      models.JobStatusDraft,
		CreatedBy:   userID,
	}
	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}
	job.Company = company
	return dto.NewJobResponse(job), nil
}

func (s *jobService) PublishJob(db *gorm.DB, userID, jobID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByIDWithCompany(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if _, err := s.access.require(db, userID, job.CompanyID, auth.ActionEdit); err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusDraft {
		return nil, apperrors.ErrInvalidJobStatus
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.credits.Deduct(database.NewScoped(tx, userID), job.CompanyID, models.CreditTypeJobPost, 1)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrInsufficientCredits.WithDetails(map[string]string{
				"credit_type": string(models.CreditTypeJobPost),
			})
		}

		moved, err := s.jobRepo.UpdateStatus(tx, jobID, models.JobStatusDraft, models.JobStatusOpen, now)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !moved {
			return apperrors.ErrInvalidJobStatus
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	job.Status = models.JobStatusOpen
	job.PublishedAt = &now
	logger.CtxInfo(dbContext(db), "job published", "job_id", jobID, "company_id", job.CompanyID)
	return dto.NewJobResponse(job), nil
}

func (s *jobService) CloseJob(db *gorm.DB, userID, jobID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByIDWithCompany(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if _, err := s.access.require(db, userID, job.CompanyID, auth.ActionEdit); err != nil {
		return nil, err
	}

	now := time.Now()
	moved, err := s.jobRepo.UpdateStatus(db, jobID, models.JobStatusOpen, models.JobStatusClosed, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !moved {
		return nil, apperrors.ErrInvalidJobStatus
	}

	job.Status = models.JobStatusClosed
	job.ClosedAt = &now
	return dto.NewJobResponse(job), nil
}

// GetJob shows drafts only to the owning team.
func (s *jobService) GetJob(db *gorm.DB, userID, jobID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByIDWithCompany(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if job.Status == models.JobStatusDraft {
		if userID == "" {
			return nil, apperrors.ErrJobNotFound
		}
		if _, err := s.access.require(db, userID, job.CompanyID, auth.ActionView); err != nil {
			return nil, apperrors.ErrJobNotFound
		}
	}
	return dto.NewJobResponse(job), nil
}

func (s *jobService) ListCompanyJobs(db *gorm.DB, userID, companyID string) ([]*dto.JobResponse, error) {
	company, err := s.access.require(db, userID, companyID, auth.ActionView)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.FindByCompany(db, companyID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		jobs[i].Company = company
		out = append(out, dto.NewJobResponse(&jobs[i]))
	}
	return out, nil
}

func (s *jobService) ListOpenJobs(db *gorm.DB, page, pageSize int) (*dto.JobListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	jobs, total, err := s.jobRepo.FindOpen(db, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, dto.NewJobResponse(&jobs[i]))
	}
	return &dto.JobListResponse{Jobs: out, Total: total, Page: page, PageSize: pageSize}, nil
}

func handleJobError(err error) error {
	if errors.Is(err, repositories.ErrJobNotFound) {
		return apperrors.ErrJobNotFound
	}
	return apperrors.InternalError(err)
}
