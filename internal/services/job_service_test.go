package services

import (
	"testing"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"
	"jobboard_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJobService() JobService {
	companyRepo := repositories.NewCompanyRepository()
	return NewJobService(repositories.NewJobRepository(), companyRepo,
		NewCreditService(repositories.NewCreditRepository(), companyRepo))
}

func TestPublishJob_SpendsCredit(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newJobService()
	owner := helpers.CreateUser(t, db, "owner")
	company := helpers.CreateCompany(t, db, owner)
	helpers.SetBalance(t, db, company.ID, 1, 0)

	first, err := svc.CreateJob(db, owner.ID, company.ID, &dto.CreateJobRequest{Title: "Go developer"})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusDraft, first.Status)
	second, err := svc.CreateJob(db, owner.ID, company.ID, &dto.CreateJobRequest{Title: "SRE"})
	require.NoError(t, err)

	published, err := svc.PublishJob(db, owner.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, published.Status)
	assert.NotNil(t, published.PublishedAt)

	_, err = svc.PublishJob(db, owner.ID, second.ID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientCredits)

	_, err = svc.PublishJob(db, owner.ID, first.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidJobStatus)

	assert.Equal(t, 0, helpers.Balance(t, db, company.ID).JobPostCredits)
	assert.EqualValues(t, 1, helpers.CountTransactions(t, db, company.ID))

	open, err := svc.ListOpenJobs(db, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, open.Total)
}

func TestJobVisibility(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newJobService()
	owner := helpers.CreateUser(t, db, "owner")
	outsider := helpers.CreateUser(t, db, "outsider")
	company := helpers.CreateCompany(t, db, owner)
	draft := helpers.CreateJob(t, db, company, models.JobStatusDraft)
	open := helpers.CreateJob(t, db, company, models.JobStatusOpen)

	_, err := svc.GetJob(db, outsider.ID, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)

	res, err := svc.GetJob(db, owner.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, res.ID)

	_, err = svc.GetJob(db, outsider.ID, open.ID)
	assert.NoError(t, err)

	closed, err := svc.CloseJob(db, owner.ID, open.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, closed.Status)
}
