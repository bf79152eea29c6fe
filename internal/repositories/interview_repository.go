package repositories

import (
	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

type InterviewRepository interface {
	Create(db *gorm.DB, interview *models.Interview) error
	FindLatestByApplication(db *gorm.DB, applicationID string) (*models.Interview, error)
	CountByApplication(db *gorm.DB, applicationID string) (int64, error)
}

type InterviewRepositoryImpl struct{}

func NewInterviewRepository() InterviewRepository {
	return &InterviewRepositoryImpl{}
}

func (r *InterviewRepositoryImpl) Create(db *gorm.DB, interview *models.Interview) error {
	return db.Create(interview).Error
}

// FindLatestByApplication returns the most recently scheduled interview.
// Rescheduling adds rows, the newest one is authoritative.
func (r *InterviewRepositoryImpl) FindLatestByApplication(db *gorm.DB, applicationID string) (*models.Interview, error) {
	var interview models.Interview
	err := db.Where("application_id = ?", applicationID).
		Order("created_at DESC").
		First(&interview).Error
	if err != nil {
		return nil, notFound(err, ErrInterviewNotFound)
	}
	return &interview, nil
}

func (r *InterviewRepositoryImpl) CountByApplication(db *gorm.DB, applicationID string) (int64, error) {
	var count int64
	err := db.Model(&models.Interview{}).Where("application_id = ?", applicationID).Count(&count).Error
	return count, err
}
