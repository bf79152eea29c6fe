package repositories

import (
	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(db *gorm.DB, company *models.Company) error
	FindByID(db *gorm.DB, id string) (*models.Company, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Company, error)

	AddMember(db *gorm.DB, member *models.TeamMember) error
	FindMember(db *gorm.DB, companyID, userID string) (*models.TeamMember, error)
	ListMembers(db *gorm.DB, companyID string) ([]models.TeamMember, error)
	UpdateMemberRole(db *gorm.DB, companyID, userID string, role models.TeamRole) error
	RemoveMember(db *gorm.DB, companyID, userID string) error
}

type CompanyRepositoryImpl struct{}

func NewCompanyRepository() CompanyRepository {
	return &CompanyRepositoryImpl{}
}

func (r *CompanyRepositoryImpl) Create(db *gorm.DB, company *models.Company) error {
	return db.Create(company).Error
}

func (r *CompanyRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Company, error) {
	var company models.Company
	if err := db.First(&company, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrCompanyNotFound)
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Company, error) {
	var companies []models.Company
	err := db.
		Where("owner_id = ? OR id IN (?)", userID,
			db.Model(&models.TeamMember{}).Select("company_id").Where("user_id = ?", userID)).
		Order("created_at ASC").
		Find(&companies).Error
	return companies, err
}

func (r *CompanyRepositoryImpl) AddMember(db *gorm.DB, member *models.TeamMember) error {
	if err := db.Create(member).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrTeamMemberExists
		}
		return err
	}
	return nil
}

func (r *CompanyRepositoryImpl) FindMember(db *gorm.DB, companyID, userID string) (*models.TeamMember, error) {
	var member models.TeamMember
	err := db.Where("company_id = ? AND user_id = ?", companyID, userID).First(&member).Error
	if err != nil {
		return nil, notFound(err, ErrTeamMemberNotFound)
	}
	return &member, nil
}

func (r *CompanyRepositoryImpl) ListMembers(db *gorm.DB, companyID string) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := db.Preload("User").
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *CompanyRepositoryImpl) UpdateMemberRole(db *gorm.DB, companyID, userID string, role models.TeamRole) error {
	result := db.Model(&models.TeamMember{}).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamMemberNotFound
	}
	return nil
}

func (r *CompanyRepositoryImpl) RemoveMember(db *gorm.DB, companyID, userID string) error {
	result := db.Where("company_id = ? AND user_id = ?", companyID, userID).Delete(&models.TeamMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamMemberNotFound
	}
	return nil
}
