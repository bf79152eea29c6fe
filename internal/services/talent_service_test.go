package services

import (
	"bytes"
	"testing"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"
	"jobboard_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTalentSearch(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newLedgerFixture()
	svc := NewTalentService(repositories.NewUserRepository(), repositories.NewCompanyRepository(), f.credits, f.subscriptions)

	owner := helpers.CreateUser(t, db, "owner")
	company := helpers.CreateCompany(t, db, owner)
	job := helpers.CreateJob(t, db, company, models.JobStatusOpen)
	helpers.CreateApplication(t, db, job, helpers.CreateUser(t, db, "gopher"), models.ApplicationStatusApplied)
	helpers.CreateApplication(t, db, job, helpers.CreateUser(t, db, "rustacean"), models.ApplicationStatusApplied)

	req := &dto.TalentSearchRequest{Query: "gopher"}

	_, err := svc.Search(db, owner.ID, company.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrPlanRequired)

	helpers.SetPlan(t, db, company.ID, models.PlanPro)
	_, err = svc.Search(db, owner.ID, company.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientCredits)

	helpers.SetBalance(t, db, company.ID, 0, 1)
	res, err := svc.Search(db, owner.ID, company.ID, req)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "gopher", res.Candidates[0].FullName)
	assert.Equal(t, 0, res.CreditsRemaining)
}

func TestExportApplications(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newLedgerFixture()
	companyRepo := repositories.NewCompanyRepository()
	svc := NewExportService(repositories.NewJobRepository(), repositories.NewApplicationRepository(), companyRepo, f.subscriptions)

	owner := helpers.CreateUser(t, db, "owner")
	company := helpers.CreateCompany(t, db, owner)
	job := helpers.CreateJob(t, db, company, models.JobStatusOpen)
	applicant := helpers.CreateUser(t, db, "applicant")
	helpers.CreateApplication(t, db, job, applicant, models.ApplicationStatusShortlisted)

	_, err := svc.ExportApplications(db, owner.ID, job.ID)
	assert.ErrorIs(t, err, apperrors.ErrPlanRequired)

	helpers.SetPlan(t, db, company.ID, models.PlanPro)
	file, err := svc.ExportApplications(db, owner.ID, job.ID)
	require.NoError(t, err)
	assert.Contains(t, file.Name, ".xlsx")

	book, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Applications")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "application_id", rows[0][0])
	assert.Equal(t, applicant.Email, rows[1][3])
	assert.Equal(t, string(models.ApplicationStatusShortlisted), rows[1][4])
}
