package repositories

import (
	"fmt"
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreditRepository interface {
	FindBalance(db *gorm.DB, companyID string) (*models.CreditBalance, error)
	// SumTransactions derives a balance from the ledger.
	SumTransactions(db *gorm.DB, companyID string) (*models.CreditBalance, bool, error)
	// DecrementIfSufficient subtracts amount in one conditional statement.
	// Returns ErrInsufficientCredits when the row is missing or too low.
	DecrementIfSufficient(db *gorm.DB, companyID string, creditType models.CreditType, amount int) error
	// IncrementUpsert adds amount, creating the balance row on first use.
	IncrementUpsert(db *gorm.DB, companyID string, creditType models.CreditType, amount int) error
	// AppendTransaction returns ErrCreditRefDuplicate when the external ref
	// was already recorded for the same company, type and reason.
	AppendTransaction(db *gorm.DB, tx *models.CreditTransaction) error
	FindTransactionByRef(db *gorm.DB, companyID, externalRef string, creditType models.CreditType, reason models.CreditReason) (*models.CreditTransaction, error)
	ListTransactions(db *gorm.DB, companyID string, limit int) ([]models.CreditTransaction, error)
}

type CreditRepositoryImpl struct{}

func NewCreditRepository() CreditRepository {
	return &CreditRepositoryImpl{}
}

func (r *CreditRepositoryImpl) FindBalance(db *gorm.DB, companyID string) (*models.CreditBalance, error) {
	var balance models.CreditBalance
	if err := db.First(&balance, "company_id = ?", companyID).Error; err != nil {
		return nil, notFound(err, ErrBalanceNotFound)
	}
	return &balance, nil
}

func (r *CreditRepositoryImpl) SumTransactions(db *gorm.DB, companyID string) (*models.CreditBalance, bool, error) {
	var rows []struct {
		CreditType models.CreditType
		Total      int
		Entries    int
	}
	err := db.Model(&models.CreditTransaction{}).
		Select("credit_type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS entries").
		Where("company_id = ?", companyID).
		Group("credit_type").
		Scan(&rows).Error
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	balance := &models.CreditBalance{CompanyID: companyID}
	for _, row := range rows {
		total := max(row.Total, 0)
		switch row.CreditType {
		case models.CreditTypeJobPost:
			balance.JobPostCredits = total
		case models.CreditTypeTalentSearch:
			balance.TalentSearchCredits = total
		}
	}
	return balance, true, nil
}

func (r *CreditRepositoryImpl) DecrementIfSufficient(db *gorm.DB, companyID string, creditType models.CreditType, amount int) error {
	col := creditType.Column()
	if col == "" {
		return fmt.Errorf("unknown credit type %q", creditType)
	}

	result := db.Model(&models.CreditBalance{}).
		Where("company_id = ? AND "+col+" >= ?", companyID, amount).
		Updates(map[string]interface{}{
			col:          gorm.Expr(col+" - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientCredits
	}
	return nil
}

func (r *CreditRepositoryImpl) IncrementUpsert(db *gorm.DB, companyID string, creditType models.CreditType, amount int) error {
	col := creditType.Column()
	if col == "" {
		return fmt.Errorf("unknown credit type %q", creditType)
	}

	balance := models.CreditBalance{CompanyID: companyID}
	switch creditType {
	case models.CreditTypeJobPost:
		balance.JobPostCredits = amount
	case models.CreditTypeTalentSearch:
		balance.TalentSearchCredits = amount
	}

	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			col:          gorm.Expr("credit_balances."+col+" + ?", amount),
			"updated_at": time.Now(),
		}),
	}).Create(&balance).Error
}

func (r *CreditRepositoryImpl) AppendTransaction(db *gorm.DB, tx *models.CreditTransaction) error {
	if err := db.Create(tx).Error; err != nil {
		if tx.ExternalRef != nil && isUniqueViolation(err) {
			return ErrCreditRefDuplicate
		}
		return err
	}
	return nil
}

func (r *CreditRepositoryImpl) FindTransactionByRef(db *gorm.DB, companyID, externalRef string, creditType models.CreditType, reason models.CreditReason) (*models.CreditTransaction, error) {
	var tx models.CreditTransaction
	err := db.Where("company_id = ? AND external_ref = ? AND credit_type = ? AND reason = ?",
		companyID, externalRef, creditType, reason).
		First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *CreditRepositoryImpl) ListTransactions(db *gorm.DB, companyID string, limit int) ([]models.CreditTransaction, error) {
	var txs []models.CreditTransaction
	err := db.Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}
