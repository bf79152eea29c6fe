package repositories

import (
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository interface {
	FindByCompany(db *gorm.DB, companyID string) (*models.Subscription, error)
	FindByExternalID(db *gorm.DB, externalSubscriptionID string) (*models.Subscription, error)
	// Upsert writes the row keyed by company_id, overwriting on conflict.
	Upsert(db *gorm.DB, sub *models.Subscription) error
	UpdateStatus(db *gorm.DB, companyID string, status models.SubscriptionStatus) (bool, error)
	// MarkLapsed moves paid active subscriptions whose period ended before
	// cutoff to past_due and returns how many changed.
	MarkLapsed(db *gorm.DB, cutoff time.Time) (int64, error)
}

type SubscriptionRepositoryImpl struct{}

func NewSubscriptionRepository() SubscriptionRepository {
	return &SubscriptionRepositoryImpl{}
}

func (r *SubscriptionRepositoryImpl) FindByCompany(db *gorm.DB, companyID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := db.Where("company_id = ?", companyID).First(&sub).Error; err != nil {
		return nil, notFound(err, ErrSubscriptionNotFound)
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindByExternalID(db *gorm.DB, externalSubscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.Where("external_subscription_id = ?", externalSubscriptionID).First(&sub).Error
	if err != nil {
		return nil, notFound(err, ErrSubscriptionNotFound)
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) Upsert(db *gorm.DB, sub *models.Subscription) error {
	// The conflict target is company_id; a fresh id keeps the primary key
	// out of the conflict.
	row := *sub
	row.ID = ""
	row.UpdatedAt = time.Now()
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan",
			"status",
			"external_customer_id",
			"external_subscription_id",
			"price_id",
			"current_period_start",
			"current_period_end",
			"metadata",
			"updated_at",
		}),
	}).Create(&row).Error
}

func (r *SubscriptionRepositoryImpl) UpdateStatus(db *gorm.DB, companyID string, status models.SubscriptionStatus) (bool, error) {
	result := db.Model(&models.Subscription{}).
		Where("company_id = ?", companyID).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *SubscriptionRepositoryImpl) MarkLapsed(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Model(&models.Subscription{}).
		Where("status IN ?", []models.SubscriptionStatus{models.SubscriptionStatusActive, models.SubscriptionStatusTrialing}).
		Where("plan <> ?", models.PlanFree).
		Where("current_period_end IS NOT NULL AND current_period_end < ?", cutoff).
		Updates(map[string]any{
			"status":     models.SubscriptionStatusPastDue,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
