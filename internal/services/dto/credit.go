package dto

import (
	"time"

	"jobboard_backend/internal/models"
)

type BalanceResponse struct {
	CompanyID           string `json:"company_id"`
	JobPostCredits      int    `json:"job_post_credits"`
	TalentSearchCredits int    `json:"talent_search_credits"`
}

type CreditTransactionResponse struct {
	ID          string              `json:"id"`
	CreditType  models.CreditType   `json:"credit_type"`
	Amount      int                 `json:"amount"`
	Reason      models.CreditReason `json:"reason"`
	ExternalRef *string             `json:"external_ref,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

type HistoryQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=200"`
}

type SubscriptionResponse struct {
	CompanyID        string                    `json:"company_id"`
	Plan             models.Plan               `json:"plan"`
	Status           models.SubscriptionStatus `json:"status"`
	CurrentPeriodEnd *time.Time                `json:"current_period_end,omitempty"`
}

type SubscriptionCheckoutRequest struct {
	Plan models.Plan `json:"plan" validate:"required,is-plan"`
}

type CreditCheckoutRequest struct {
	CreditType models.CreditType `json:"credit_type" validate:"required,is-credit-type"`
	Quantity   int               `json:"quantity" validate:"required,min=1,max=100"`
}

type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type TalentSearchRequest struct {
	Query string `json:"query" validate:"omitempty,max=200"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type TalentSearchResponse struct {
	Candidates       []ApplicantSummary `json:"candidates"`
	CreditsRemaining int                `json:"credits_remaining"`
}

func NewBalanceResponse(b models.CreditBalance) *BalanceResponse {
	return &BalanceResponse{
		CompanyID:           b.CompanyID,
		JobPostCredits:      b.JobPostCredits,
		TalentSearchCredits: b.TalentSearchCredits,
	}
}

func NewSubscriptionResponse(s *models.Subscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		CompanyID:        s.CompanyID,
		Plan:             s.Plan,
		Status:           s.Status,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
}
