package billing

import (
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/models"
)

// Catalog maps provider price identifiers to internal plans and credit packs.
type Catalog struct {
	prices config.Prices
}

func NewCatalog(prices config.Prices) Catalog {
	return Catalog{prices: prices}
}

// PlanForPrice returns the plan a recurring price grants. Unknown prices map to free.
func (c Catalog) PlanForPrice(priceID string) models.Plan {
	switch {
	case priceID == "":
		return models.PlanFree
	case priceID == c.prices.EnterpriseMonthly:
		return models.PlanEnterprise
	case priceID == c.prices.ProMonthly:
		return models.PlanPro
	}
	return models.PlanFree
}

func (c Catalog) IsEnterprisePrice(priceID string) bool {
	return priceID != "" && priceID == c.prices.EnterpriseMonthly
}

func (c Catalog) PriceForPlan(plan models.Plan) (string, bool) {
	var price string
	switch plan {
	case models.PlanPro:
		price = c.prices.ProMonthly
	case models.PlanEnterprise:
		price = c.prices.EnterpriseMonthly
	}
	return price, price != ""
}

// PriceForCredit returns the per-unit price of a credit pack.
func (c Catalog) PriceForCredit(creditType models.CreditType) (string, bool) {
	var price string
	switch creditType {
	case models.CreditTypeJobPost:
		price = c.prices.JobPostCredit
	case models.CreditTypeTalentSearch:
		price = c.prices.TalentSearchPack
	}
	return price, price != ""
}

// MapStatus folds provider subscription states onto ours.
func MapStatus(external string) models.SubscriptionStatus {
	switch external {
	case "active":
		return models.SubscriptionStatusActive
	case "past_due":
		return models.SubscriptionStatusPastDue
	case "canceled", "unpaid":
		return models.SubscriptionStatusCanceled
	case "trialing":
		return models.SubscriptionStatusTrialing
	}
	return models.SubscriptionStatusActive
}
