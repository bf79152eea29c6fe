package models

import (
	"time"

	"gorm.io/datatypes"
)

type Subscription struct {
	BaseModel
	CompanyID              string             `gorm:"type:uuid;not null;uniqueIndex" json:"company_id"`
	Plan                   Plan               `gorm:"type:varchar(20);not null" json:"plan"`
	Status                 SubscriptionStatus `gorm:"type:varchar(20);not null" json:"status"`
	ExternalCustomerID     *string            `json:"external_customer_id,omitempty"`
	ExternalSubscriptionID *string            `gorm:"index" json:"external_subscription_id,omitempty"`
	PriceID                string             `json:"price_id,omitempty"`
	CurrentPeriodStart     *time.Time         `json:"current_period_start,omitempty"`
	CurrentPeriodEnd       *time.Time         `json:"current_period_end,omitempty"`
	Metadata               datatypes.JSON     `gorm:"type:jsonb" json:"metadata,omitempty"`
}

// BillingEvent records every provider webhook delivery. The unique provider
// event id makes redeliveries detectable.
type BillingEvent struct {
	BaseModel
	Provider        string         `gorm:"type:varchar(20);not null" json:"provider"`
	ProviderEventID string         `gorm:"not null;uniqueIndex" json:"provider_event_id"`
	Type            string         `gorm:"not null;index" json:"type"`
	Payload         datatypes.JSON `gorm:"type:jsonb" json:"-"`
	ProcessedAt     *time.Time     `json:"processed_at,omitempty"`
	Outcome         string         `gorm:"type:varchar(20)" json:"outcome"`
	ProcessingError *string        `gorm:"type:text" json:"processing_error,omitempty"`
}

const (
	BillingOutcomeProcessed = "processed"
	BillingOutcomeIgnored   = "ignored"
	BillingOutcomeSkipped   = "skipped"
)

// AllModels lists every table, in dependency order, for AutoMigrate.
func AllModels() []any {
	return []any{
		&User{},
		&Company{},
		&TeamMember{},
		&Job{},
		&Application{},
		&Interview{},
		&CreditBalance{},
		&CreditTransaction{},
		&Subscription{},
		&BillingEvent{},
	}
}
