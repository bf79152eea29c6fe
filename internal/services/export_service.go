package services

import (
	"bytes"
	"fmt"
	"time"

	"jobboard_backend/database"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/pkg/apperrors"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type ExportService interface {
	// ExportApplications builds an XLSX of a job's pipeline. Requires pro or above.
	ExportApplications(db *gorm.DB, userID, jobID string) (*ExportFile, error)
}

type exportService struct {
	jobRepo         repositories.JobRepository
	applicationRepo repositories.ApplicationRepository
	subscriptions   SubscriptionService
	access          companyAccess
}

func NewExportService(
	jobRepo repositories.JobRepository,
	applicationRepo repositories.ApplicationRepository,
	companyRepo repositories.CompanyRepository,
	subscriptions SubscriptionService,
) ExportService {
	return &exportService{
		jobRepo:         jobRepo,
		applicationRepo: applicationRepo,
		subscriptions:   subscriptions,
		access:          newCompanyAccess(companyRepo),
	}
}

func (s *exportService) ExportApplications(db *gorm.DB, userID, jobID string) (*ExportFile, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if _, err := s.access.require(db, userID, job.CompanyID, auth.ActionView); err != nil {
		return nil, err
	}
	if err := s.subscriptions.RequirePlan(database.NewScoped(db, userID), job.CompanyID, models.PlanPro); err != nil {
		return nil, err
	}

	applications, err := s.applicationRepo.FindByJob(db, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	data, err := applicationsWorkbook(job, applications)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &ExportFile{
		Name:        fmt.Sprintf("applications_%s_%s.xlsx", job.ID, time.Now().UTC().Format("20060102_150405")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

func applicationsWorkbook(job *models.Job, applications []models.Application) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Applications"); err != nil {
		return nil, err
	}
	sheet = "Applications"

	header := []interface{}{"application_id", "job_title", "applicant_name", "applicant_email", "status", "status_changed_at", "applied_at"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, a := range applications {
		var name, mail string
		if a.Applicant != nil {
			name, mail = a.Applicant.FullName, a.Applicant.Email
		}
		row := []interface{}{
			a.ID,
			job.Title,
			name,
			mail,
			string(a.Status),
			a.StatusChangedAt.UTC().Format(time.RFC3339),
			a.CreatedAt.UTC().Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
