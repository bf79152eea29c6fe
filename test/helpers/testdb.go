package helpers

import (
	"fmt"
	"testing"
	"time"

	"jobboard_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory database with the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.AllModels()...), "migrate test database")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    fmt.Sprintf("%s_%s@test.local", name, uuid.NewString()[:8]),
		FullName: name,
	}
	require.NoError(t, db.Create(user).Error, "create user %s", name)
	return user
}

// CreateCompany creates a company owned by owner, with the owner as admin member.
func CreateCompany(t *testing.T, db *gorm.DB, owner *models.User) *models.Company {
	t.Helper()
	company := &models.Company{Name: "Acme " + owner.FullName, OwnerID: owner.ID}
	require.NoError(t, db.Create(company).Error, "create company")
	AddMember(t, db, company, owner, models.TeamRoleAdmin)
	return company
}

func AddMember(t *testing.T, db *gorm.DB, company *models.Company, user *models.User, role models.TeamRole) *models.TeamMember {
	t.Helper()
	member := &models.TeamMember{CompanyID: company.ID, UserID: user.ID, Role: role}
	require.NoError(t, db.Create(member).Error, "add member")
	return member
}

func CreateJob(t *testing.T, db *gorm.DB, company *models.Company, status models.JobStatus) *models.Job {
	t.Helper()
	job := &models.Job{
		CompanyID:   company.ID,
		Title:       "Backend Engineer",
		Description: "Go, Postgres",
		Status:      status,
		CreatedBy:   company.OwnerID,
	}
	if status == models.JobStatusOpen {
		now := time.Now()
		job.PublishedAt = &now
	}
	require.NoError(t, db.Create(job).Error, "create job")
	return job
}

func CreateApplication(t *testing.T, db *gorm.DB, job *models.Job, applicant *models.User, status models.ApplicationStatus) *models.Application {
	t.Helper()
	application := &models.Application{
		JobID:           job.ID,
		ApplicantID:     applicant.ID,
		Status:          status,
		StatusChangedAt: time.Now(),
	}
	require.NoError(t, db.Create(application).Error, "create application")
	return application
}

func SetBalance(t *testing.T, db *gorm.DB, companyID string, jobPost, talentSearch int) {
	t.Helper()
	balance := &models.CreditBalance{
		CompanyID:           companyID,
		JobPostCredits:      jobPost,
		TalentSearchCredits: talentSearch,
	}
	require.NoError(t, db.Save(balance).Error, "set balance")
}

func SetPlan(t *testing.T, db *gorm.DB, companyID string, plan models.Plan) *models.Subscription {
	t.Helper()
	sub := &models.Subscription{
		CompanyID: companyID,
		Plan:      plan,
		Status:    models.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(sub).Error, "set plan")
	return sub
}

// ReloadApplication reads the stored row, bypassing any caller copies.
func ReloadApplication(t *testing.T, db *gorm.DB, id string) *models.Application {
	t.Helper()
	var application models.Application
	require.NoError(t, db.First(&application, "id = ?", id).Error)
	return &application
}

func Balance(t *testing.T, db *gorm.DB, companyID string) models.CreditBalance {
	t.Helper()
	var balance models.CreditBalance
	err := db.First(&balance, "company_id = ?", companyID).Error
	if err != nil {
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	}
	return balance
}

func CountTransactions(t *testing.T, db *gorm.DB, companyID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.CreditTransaction{}).Where("company_id = ?", companyID).Count(&n).Error)
	return n
}
