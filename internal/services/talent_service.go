package services

import (
	"strings"

	"jobboard_backend/database"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const defaultTalentLimit = 20

type TalentService interface {
	// Search costs one talent_search credit and requires pro or above.
	Search(db *gorm.DB, userID, companyID string, req *dto.TalentSearchRequest) (*dto.TalentSearchResponse, error)
}

type talentService struct {
	userRepo      repositories.UserRepository
	credits       CreditService
	subscriptions SubscriptionService
	access        companyAccess
}

func NewTalentService(
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	credits CreditService,
	subscriptions SubscriptionService,
) TalentService {
	return &talentService{
		userRepo:      userRepo,
		credits:       credits,
		subscriptions: subscriptions,
		access:        newCompanyAccess(companyRepo),
	}
}

func (s *talentService) Search(db *gorm.DB, userID, companyID string, req *dto.TalentSearchRequest) (*dto.TalentSearchResponse, error) {
	if _, err := s.access.require(db, userID, companyID, auth.ActionEdit); err != nil {
		return nil, err
	}
	if err := s.subscriptions.RequirePlan(database.NewScoped(db, userID), companyID, models.PlanPro); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultTalentLimit
	}

	var users []models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.credits.Deduct(database.NewScoped(tx, userID), companyID, models.CreditTypeTalentSearch, 1)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrInsufficientCredits.WithDetails(map[string]string{
				"credit_type": string(models.CreditTypeTalentSearch),
			})
		}

		users, err = s.userRepo.SearchApplicants(tx, companyID, strings.TrimSpace(req.Query), limit)
		if err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]dto.ApplicantSummary, 0, len(users))
	for _, u := range users {
		candidates = append(candidates, dto.ApplicantSummary{ID: u.ID, Email: u.Email, FullName: u.FullName})
	}

	balance := s.credits.GetBalance(database.NewScoped(db, userID), companyID)
	logger.CtxInfo(dbContext(db), "talent search", "company_id", companyID, "results", len(candidates))
	return &dto.TalentSearchResponse{
		Candidates:       candidates,
		CreditsRemaining: balance.TalentSearchCredits,
	}, nil
}
