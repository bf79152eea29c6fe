package services

import (
	"errors"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// companyAccess resolves a user's role on a company and applies the
// permission matrix. The owner is always treated as admin.
type companyAccess struct {
	companyRepo repositories.CompanyRepository
}

func newCompanyAccess(companyRepo repositories.CompanyRepository) companyAccess {
	return companyAccess{companyRepo: companyRepo}
}

func (a companyAccess) role(db *gorm.DB, userID string, company *models.Company) (models.TeamRole, bool, error) {
	if company.OwnerID == userID {
		return models.TeamRoleAdmin, true, nil
	}
	member, err := a.companyRepo.FindMember(db, company.ID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return member.Role, true, nil
}

// require loads the company and checks userID may perform action on it.
func (a companyAccess) require(db *gorm.DB, userID, companyID string, action auth.Action) (*models.Company, error) {
	company, err := a.companyRepo.FindByID(db, companyID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompanyNotFound) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	role, isMember, err := a.role(db, userID, company)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !isMember {
		return nil, apperrors.ErrNotCompanyMember
	}
	if !auth.Can(role, action) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return company, nil
}

// isMember reports whether userID belongs to the company in any role.
func (a companyAccess) isMember(db *gorm.DB, userID string, company *models.Company) (bool, error) {
	_, ok, err := a.role(db, userID, company)
	return ok, err
}
