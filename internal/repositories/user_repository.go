package repositories

import (
	"jobboard_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	// Ensure inserts the user on first sight and refreshes the email otherwise.
	Ensure(db *gorm.DB, user *models.User) error
	SearchApplicants(db *gorm.DB, companyID, query string, limit int) ([]models.User, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Ensure(db *gorm.DB, user *models.User) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "updated_at"}),
	}).Create(user).Error
}

// SearchApplicants returns users who have applied to any job, excluding
// members of the searching company, matching query on name or email.
func (r *UserRepositoryImpl) SearchApplicants(db *gorm.DB, companyID, query string, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"

	q := db.Model(&models.User{}).
		Where("id IN (?)", db.Model(&models.Application{}).Select("applicant_id")).
		Where("id NOT IN (?)", db.Model(&models.TeamMember{}).Select("user_id").Where("company_id = ?", companyID))
	if query != "" {
		q = q.Where("LOWER(full_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}

	err := q.Order("full_name ASC").Limit(limit).Find(&users).Error
	return users, err
}
