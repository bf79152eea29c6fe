package repositories

import (
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

type BillingEventRepository interface {
	// Record inserts the event. Returns ErrBillingEventDuplicate for a
	// provider event id that was already stored.
	Record(db *gorm.DB, event *models.BillingEvent) error
	FindByProviderID(db *gorm.DB, providerEventID string) (*models.BillingEvent, error)
	MarkProcessed(db *gorm.DB, id, outcome string, processingErr *string) error
}

type BillingEventRepositoryImpl struct{}

func NewBillingEventRepository() BillingEventRepository {
	return &BillingEventRepositoryImpl{}
}

func (r *BillingEventRepositoryImpl) Record(db *gorm.DB, event *models.BillingEvent) error {
	if err := db.Create(event).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrBillingEventDuplicate
		}
		return err
	}
	return nil
}

func (r *BillingEventRepositoryImpl) FindByProviderID(db *gorm.DB, providerEventID string) (*models.BillingEvent, error) {
	var event models.BillingEvent
	err := db.Where("provider_event_id = ?", providerEventID).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *BillingEventRepositoryImpl) MarkProcessed(db *gorm.DB, id, outcome string, processingErr *string) error {
	now := time.Now()
	return db.Model(&models.BillingEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed_at":     now,
			"outcome":          outcome,
			"processing_error": processingErr,
		}).Error
}
