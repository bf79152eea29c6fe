package services

import (
	"errors"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type TeamService interface {
	CreateCompany(db *gorm.DB, ownerID string, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
	ListMyCompanies(db *gorm.DB, userID string) ([]*dto.CompanyResponse, error)

	ListMembers(db *gorm.DB, userID, companyID string) ([]*dto.MemberResponse, error)
	AddMember(db *gorm.DB, userID, companyID string, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	UpdateMemberRole(db *gorm.DB, userID, companyID, memberID string, role models.TeamRole) error
	RemoveMember(db *gorm.DB, userID, companyID, memberID string) error
}

type teamService struct {
	companyRepo repositories.CompanyRepository
	userRepo    repositories.UserRepository
	access      companyAccess
}

func NewTeamService(
	companyRepo repositories.CompanyRepository,
	userRepo repositories.UserRepository,
) TeamService {
	return &teamService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		access:      newCompanyAccess(companyRepo),
	}
}

// CreateCompany makes the caller owner and admin member in one transaction.
func (s *teamService) CreateCompany(db *gorm.DB, ownerID string, req *dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	company := &models.Company{
		Name:    req.Name,
		Website: req.Website,
		OwnerID: ownerID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.companyRepo.Create(tx, company); err != nil {
			return err
		}
		return s.companyRepo.AddMember(tx, &models.TeamMember{
			CompanyID: company.ID,
			UserID:    ownerID,
			Role:      models.TeamRoleAdmin,
		})
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(dbContext(db), "company created", "company_id", company.ID, "owner_id", ownerID)
	return dto.NewCompanyResponse(company), nil
}

func (s *teamService) ListMyCompanies(db *gorm.DB, userID string) ([]*dto.CompanyResponse, error) {
	companies, err := s.companyRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		out = append(out, dto.NewCompanyResponse(&companies[i]))
	}
	return out, nil
}

func (s *teamService) ListMembers(db *gorm.DB, userID, companyID string) ([]*dto.MemberResponse, error) {
	company, err := s.access.require(db, userID, companyID, auth.ActionView)
	if err != nil {
		return nil, err
	}

	members, err := s.companyRepo.ListMembers(db, companyID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, memberResponse(company, &members[i]))
	}
	return out, nil
}

func (s *teamService) AddMember(db *gorm.DB, userID, companyID string, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	company, err := s.access.require(db, userID, companyID, auth.ActionManage)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err).WithDetails(map[string]string{
				"email": "No account with this email. Ask them to sign in first.",
			})
		}
		return nil, apperrors.InternalError(err)
	}

	member := &models.TeamMember{CompanyID: companyID, UserID: user.ID, Role: req.Role}
	if err := s.companyRepo.AddMember(db, member); err != nil {
		if errors.Is(err, repositories.ErrTeamMemberExists) {
			return nil, apperrors.ErrMemberAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}
	member.User = user

	logger.CtxInfo(dbContext(db), "team member added", "company_id", companyID,
		"member_id", user.ID, "role", req.Role)
	return memberResponse(company, member), nil
}

func (s *teamService) UpdateMemberRole(db *gorm.DB, userID, companyID, memberID string, role models.TeamRole) error {
	if !role.IsValid() {
		return apperrors.ValidationError(map[string]string{"role": "Must be one of: admin, recruiter, viewer"})
	}
	company, err := s.access.require(db, userID, companyID, auth.ActionManage)
	if err != nil {
		return err
	}
	if memberID == company.OwnerID {
		return apperrors.ErrCannotModifyOwner
	}

	if err := s.companyRepo.UpdateMemberRole(db, companyID, memberID, role); err != nil {
		return handleTeamError(err)
	}
	logger.CtxInfo(dbContext(db), "team member role changed", "company_id", companyID,
		"member_id", memberID, "role", role)
	return nil
}

func (s *teamService) RemoveMember(db *gorm.DB, userID, companyID, memberID string) error {
	company, err := s.access.require(db, userID, companyID, auth.ActionManage)
	if err != nil {
		return err
	}
	if memberID == company.OwnerID {
		return apperrors.ErrCannotModifyOwner
	}

	if err := s.companyRepo.RemoveMember(db, companyID, memberID); err != nil {
		return handleTeamError(err)
	}
	logger.CtxInfo(dbContext(db), "team member removed", "company_id", companyID, "member_id", memberID)
	return nil
}

func memberResponse(company *models.Company, m *models.TeamMember) *dto.MemberResponse {
	resp := &dto.MemberResponse{
		UserID:   m.UserID,
		Role:     m.Role,
		IsOwner:  m.UserID == company.OwnerID,
		JoinedAt: m.CreatedAt,
	}
	if m.User != nil {
		resp.Email = m.User.Email
		resp.FullName = m.User.FullName
	}
	return resp
}

func handleTeamError(err error) error {
	if errors.Is(err, repositories.ErrTeamMemberNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
