package workers

import (
	"context"
	"testing"
	"time"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepOnce_MarksOnlyLapsedPaidPlans(t *testing.T) {
	db := helpers.NewTestDB(t)
	owner := helpers.CreateUser(t, db, "owner")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	lapsedAt := now.Add(-96 * time.Hour)
	withinGrace := now.Add(-24 * time.Hour)

	lapsed := helpers.SetPlan(t, db, helpers.CreateCompany(t, db, owner).ID, models.PlanPro)
	require.NoError(t, db.Model(lapsed).Update("current_period_end", lapsedAt).Error)

	fresh := helpers.SetPlan(t, db, helpers.CreateCompany(t, db, owner).ID, models.PlanEnterprise)
	require.NoError(t, db.Model(fresh).Update("current_period_end", withinGrace).Error)

	free := helpers.SetPlan(t, db, helpers.CreateCompany(t, db, owner).ID, models.PlanFree)
	require.NoError(t, db.Model(free).Update("current_period_end", lapsedAt).Error)

	repo := repositories.NewSubscriptionRepository()
	w := NewSubscriptionWorker(db, repo, time.Hour, 72*time.Hour)
	w.now = func() time.Time { return now }

	n, err := w.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	status := func(companyID string) models.SubscriptionStatus {
		sub, err := repo.FindByCompany(db, companyID)
		require.NoError(t, err)
		return sub.Status
	}
	assert.Equal(t, models.SubscriptionStatusPastDue, status(lapsed.CompanyID))
	assert.Equal(t, models.SubscriptionStatusActive, status(fresh.CompanyID))
	assert.Equal(t, models.SubscriptionStatusActive, status(free.CompanyID))

	n, err = w.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
