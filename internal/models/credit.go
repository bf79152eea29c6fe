package models

import "time"

// CreditBalance holds the per-company counters. Both are kept >= 0 by
// conditional updates, never by read-then-write.
type CreditBalance struct {
	CompanyID           string    `gorm:"type:uuid;primaryKey" json:"company_id"`
	JobPostCredits      int       `gorm:"not null;default:0" json:"job_post_credits"`
	TalentSearchCredits int       `gorm:"not null;default:0" json:"talent_search_credits"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b CreditBalance) Get(t CreditType) int {
	switch t {
	case CreditTypeJobPost:
		return b.JobPostCredits
	case CreditTypeTalentSearch:
		return b.TalentSearchCredits
	}
	return 0
}

// CreditTransaction is an append-only ledger entry. A non-null external ref
// is unique per company, credit type and reason.
type CreditTransaction struct {
	BaseModel
	CompanyID   string       `gorm:"type:uuid;not null;index;uniqueIndex:uq_credit_transactions_ref,priority:1,where:external_ref IS NOT NULL" json:"company_id"`
	CreditType  CreditType   `gorm:"type:varchar(20);not null;uniqueIndex:uq_credit_transactions_ref,priority:2" json:"credit_type"`
	Amount      int          `gorm:"not null" json:"amount"`
	Reason      CreditReason `gorm:"type:varchar(30);not null;uniqueIndex:uq_credit_transactions_ref,priority:3" json:"reason"`
	ExternalRef *string      `gorm:"uniqueIndex:uq_credit_transactions_ref,priority:4" json:"external_ref,omitempty"`
}
