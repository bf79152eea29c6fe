package repositories

import (
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	FindByIDWithCompany(db *gorm.DB, id string) (*models.Job, error)
	FindByCompany(db *gorm.DB, companyID string) ([]models.Job, error)
	FindOpen(db *gorm.DB, limit, offset int) ([]models.Job, int64, error)
	// UpdateStatus moves a job from one status to another. Returns false when
	// the job was not in the expected status.
	UpdateStatus(db *gorm.DB, id string, from, to models.JobStatus, at time.Time) (bool, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	if err := db.First(&job, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindByIDWithCompany(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	if err := db.Preload("Company").First(&job, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindByCompany(db *gorm.DB, companyID string) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("company_id = ?", companyID).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) FindOpen(db *gorm.DB, limit, offset int) ([]models.Job, int64, error) {
	var jobs []models.Job
	var total int64

	query := db.Model(&models.Job{}).Where("status = ?", models.JobStatusOpen)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Company").
		Order("published_at DESC").
		Limit(limit).Offset(offset).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) UpdateStatus(db *gorm.DB, id string, from, to models.JobStatus, at time.Time) (bool, error) {
	updates := map[string]interface{}{"status": to}
	switch to {
	case models.JobStatusOpen:
		updates["published_at"] = at
	case models.JobStatusClosed:
		updates["closed_at"] = at
	}

	result := db.Model(&models.Job{}).Where("id = ? AND status = ?", id, from).Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
