package repositories

import (
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Create(db *gorm.DB, application *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	// FindWithRelations loads the job (with company) and the applicant.
	FindWithRelations(db *gorm.DB, id string) (*models.Application, error)
	FindByJobAndApplicant(db *gorm.DB, jobID, applicantID string) (*models.Application, error)
	FindByJob(db *gorm.DB, jobID string) ([]models.Application, error)
	FindByApplicant(db *gorm.DB, applicantID string) ([]models.Application, error)
	// UpdateStatus sets the status only if it still equals from.
	// A false result means someone else moved the application first.
	UpdateStatus(db *gorm.DB, id string, from, to models.ApplicationStatus, at time.Time) (bool, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, application *models.Application) error {
	if err := db.Create(application).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrApplicationExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var application models.Application
	if err := db.First(&application, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrApplicationNotFound)
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindWithRelations(db *gorm.DB, id string) (*models.Application, error) {
	var application models.Application
	err := db.Preload("Job.Company").Preload("Applicant").First(&application, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrApplicationNotFound)
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByJobAndApplicant(db *gorm.DB, jobID, applicantID string) (*models.Application, error) {
	var application models.Application
	err := db.Where("job_id = ? AND applicant_id = ?", jobID, applicantID).First(&application).Error
	if err != nil {
		return nil, notFound(err, ErrApplicationNotFound)
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByJob(db *gorm.DB, jobID string) ([]models.Application, error) {
	var applications []models.Application
	err := db.Preload("Applicant").
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) FindByApplicant(db *gorm.DB, applicantID string) ([]models.Application, error) {
	var applications []models.Application
	err := db.Preload("Job.Company").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, from, to models.ApplicationStatus, at time.Time) (bool, error) {
	result := db.Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":            to,
			"status_changed_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
