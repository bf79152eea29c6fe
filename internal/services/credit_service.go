package services

import (
	"context"
	"errors"

	"jobboard_backend/database"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/metrics"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const defaultHistoryLimit = 50

type CreditService interface {
	// GetBalance never fails and never returns negative counts.
	GetBalance(h database.Handle, companyID string) models.CreditBalance
	// Deduct returns false, with nothing written, when the balance is too low.
	Deduct(h database.Handle, companyID string, creditType models.CreditType, amount int) (bool, error)
	// Add is a no-op when externalRef was already credited for the same type and reason.
	Add(h database.Handle, companyID string, creditType models.CreditType, amount int, reason models.CreditReason, externalRef string) error
	History(h database.Handle, companyID string, limit int) ([]models.CreditTransaction, error)

	GetCompanyBalance(db *gorm.DB, userID, companyID string) (*dto.BalanceResponse, error)
	GetCompanyHistory(db *gorm.DB, userID, companyID string, limit int) ([]*dto.CreditTransactionResponse, error)
}

type creditService struct {
	creditRepo repositories.CreditRepository
	access     companyAccess
}

func NewCreditService(
	creditRepo repositories.CreditRepository,
	companyRepo repositories.CompanyRepository,
) CreditService {
	return &creditService{
		creditRepo: creditRepo,
		access:     newCompanyAccess(companyRepo),
	}
}

// =======================
// Ledger
// =======================

func (s *creditService) GetBalance(h database.Handle, companyID string) models.CreditBalance {
	db := h.DB()
	ctx := dbContext(db)

	balance, found := FirstDefinite(ctx,
		LookupStrategy[models.CreditBalance]{
			Name: "balance_row",
			Find: func(context.Context) (models.CreditBalance, bool, error) {
				b, err := s.creditRepo.FindBalance(db, companyID)
				if errors.Is(err, repositories.ErrBalanceNotFound) {
					return models.CreditBalance{}, false, nil
				}
				if err != nil {
					return models.CreditBalance{}, false, err
				}
				return *b, true, nil
			},
		},
		LookupStrategy[models.CreditBalance]{
			Name: "transaction_sum",
			Find: func(context.Context) (models.CreditBalance, bool, error) {
				b, ok, err := s.creditRepo.SumTransactions(db, companyID)
				if err != nil || !ok {
					return models.CreditBalance{}, false, err
				}
				return *b, true, nil
			},
		},
	)
	if !found {
		balance = models.CreditBalance{}
	}

	balance.CompanyID = companyID
	balance.JobPostCredits = max(balance.JobPostCredits, 0)
	balance.TalentSearchCredits = max(balance.TalentSearchCredits, 0)
	return balance
}

func (s *creditService) Deduct(h database.Handle, companyID string, creditType models.CreditType, amount int) (bool, error) {
	if !creditType.IsValid() {
		return false, apperrors.ValidationError("unknown credit type")
	}
	if amount <= 0 {
		return false, apperrors.ErrInvalidCreditAmount
	}

	ctx := dbContext(h.DB())
	err := h.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.creditRepo.DecrementIfSufficient(tx, companyID, creditType, amount); err != nil {
			return err
		}
		return s.creditRepo.AppendTransaction(tx, &models.CreditTransaction{
			CompanyID:  companyID,
			CreditType: creditType,
			Amount:     -amount,
			Reason:     models.CreditReasonUsed,
		})
	})

	switch {
	case errors.Is(err, repositories.ErrInsufficientCredits):
		metrics.CreditOperations.WithLabelValues(string(creditType), "deduct", "insufficient").Inc()
		logger.CtxInfo(ctx, "credit deduction refused", "company_id", companyID,
			"credit_type", creditType, "amount", amount)
		return false, nil
	case err != nil:
		metrics.CreditOperations.WithLabelValues(string(creditType), "deduct", "error").Inc()
		logger.LedgerLog(companyID, string(creditType), "deduct", amount, err)
		return false, apperrors.InternalError(err)
	}

	metrics.CreditOperations.WithLabelValues(string(creditType), "deduct", "ok").Inc()
	logger.LedgerLog(companyID, string(creditType), "deduct", amount, nil)
	return true, nil
}

func (s *creditService) Add(h database.Handle, companyID string, creditType models.CreditType, amount int, reason models.CreditReason, externalRef string) error {
	if !creditType.IsValid() {
		return apperrors.ValidationError("unknown credit type")
	}
	if amount <= 0 {
		return apperrors.ErrInvalidCreditAmount
	}

	ctx := dbContext(h.DB())
	var ref *string
	if externalRef != "" {
		ref = &externalRef
	}

	duplicate := false
	err := h.DB().Transaction(func(tx *gorm.DB) error {
		if ref != nil {
			_, err := s.creditRepo.FindTransactionByRef(tx, companyID, externalRef, creditType, reason)
			if err == nil {
				duplicate = true
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		if err := s.creditRepo.IncrementUpsert(tx, companyID, creditType, amount); err != nil {
			return err
		}
		// A concurrent Add with the same ref can pass the read above; the unique
		// index catches it here and the returned error undoes the increment.
		return s.creditRepo.AppendTransaction(tx, &models.CreditTransaction{
			CompanyID:   companyID,
			CreditType:  creditType,
			Amount:      amount,
			Reason:      reason,
			ExternalRef: ref,
		})
	})
	if errors.Is(err, repositories.ErrCreditRefDuplicate) {
		duplicate, err = true, nil
	}
	if err != nil {
		metrics.CreditOperations.WithLabelValues(string(creditType), "add", "error").Inc()
		logger.LedgerLog(companyID, string(creditType), "add", amount, err)
		return apperrors.InternalError(err)
	}

	if duplicate {
		metrics.CreditOperations.WithLabelValues(string(creditType), "add", "duplicate").Inc()
		logger.CtxInfo(ctx, "credit add already applied", "company_id", companyID,
			"external_ref", externalRef, "reason", reason, "privilege", h.Privilege())
		return nil
	}

	metrics.CreditOperations.WithLabelValues(string(creditType), "add", "ok").Inc()
	logger.CtxInfo(ctx, "credits added", "company_id", companyID, "credit_type", creditType,
		"amount", amount, "reason", reason, "privilege", h.Privilege())
	return nil
}

func (s *creditService) History(h database.Handle, companyID string, limit int) ([]models.CreditTransaction, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultHistoryLimit
	}
	txs, err := s.creditRepo.ListTransactions(h.DB(), companyID, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return txs, nil
}

// =======================
// Company-facing reads
// =======================

func (s *creditService) GetCompanyBalance(db *gorm.DB, userID, companyID string) (*dto.BalanceResponse, error) {
	if _, err := s.access.require(db, userID, companyID, auth.ActionView); err != nil {
		return nil, err
	}
	return dto.NewBalanceResponse(s.GetBalance(database.NewScoped(db, userID), companyID)), nil
}

func (s *creditService) GetCompanyHistory(db *gorm.DB, userID, companyID string, limit int) ([]*dto.CreditTransactionResponse, error) {
	if _, err := s.access.require(db, userID, companyID, auth.ActionView); err != nil {
		return nil, err
	}

	txs, err := s.History(database.NewScoped(db, userID), companyID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.CreditTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, &dto.CreditTransactionResponse{
			ID:          tx.ID,
			CreditType:  tx.CreditType,
			Amount:      tx.Amount,
			Reason:      tx.Reason,
			ExternalRef: tx.ExternalRef,
			CreatedAt:   tx.CreatedAt,
		})
	}
	return out, nil
}
