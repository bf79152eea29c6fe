package handlers

import (
	"net/http"

	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// LedgerHandler serves the company-facing side of credits, plans and checkout.
type LedgerHandler struct {
	*BaseHandler
	creditService       services.CreditService
	subscriptionService services.SubscriptionService
	billingService      services.BillingService
	talentService       services.TalentService
}

func NewLedgerHandler(
	base *BaseHandler,
	creditService services.CreditService,
	subscriptionService services.SubscriptionService,
	billingService services.BillingService,
	talentService services.TalentService,
) *LedgerHandler {
	return &LedgerHandler{
		BaseHandler:         base,
		creditService:       creditService,
		subscriptionService: subscriptionService,
		billingService:      billingService,
		talentService:       talentService,
	}
}

func (h *LedgerHandler) RegisterRoutes(_, protected *gin.RouterGroup) {
	company := protected.Group("/companies/:companyId")
	{
		company.GET("/credits", h.GetBalance)
		company.GET("/credits/history", h.GetHistory)
		company.GET("/subscription", h.GetSubscription)
		company.POST("/checkout/subscription", h.SubscriptionCheckout)
		company.POST("/checkout/credits", h.CreditCheckout)
		company.POST("/talent/search", h.TalentSearch)
	}
}

// GetBalance godoc
// @Summary Company credit balance
// @Tags credits
// @Produce json
// @Param companyId path string true "Company ID"
// @Success 200 {object} dto.BalanceResponse
// @Router /api/v1/companies/{companyId}/credits [get]
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	res, err := h.creditService.GetCompanyBalance(h.GetDB(c), userID, c.Param("companyId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *LedgerHandler) GetHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var q dto.HistoryQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	res, err := h.creditService.GetCompanyHistory(h.GetDB(c), userID, c.Param("companyId"), q.Limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": res})
}

func (h *LedgerHandler) GetSubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	res, err := h.subscriptionService.GetCompanySubscription(h.GetDB(c), userID, c.Param("companyId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SubscriptionCheckout godoc
// @Summary Start a hosted checkout for a plan
// @Tags billing
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param request body dto.SubscriptionCheckoutRequest true "Plan"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 503 {object} apperrors.ErrorResponse "Payment provider unavailable"
// @Router /api/v1/companies/{companyId}/checkout/subscription [post]
func (h *LedgerHandler) SubscriptionCheckout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubscriptionCheckoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	res, err := h.billingService.CreateSubscriptionCheckout(h.GetDB(c), userID, c.GetString(contextkeys.EmailKey), c.Param("companyId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *LedgerHandler) CreditCheckout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreditCheckoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	res, err := h.billingService.CreateCreditCheckout(h.GetDB(c), userID, c.GetString(contextkeys.EmailKey), c.Param("companyId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// TalentSearch godoc
// @Summary Search past applicants
// @Description Requires the pro plan and spends one talent_search credit.
// @Tags talent
// @Accept json
// @Produce json
// @Param companyId path string true "Company ID"
// @Param request body dto.TalentSearchRequest true "Query"
// @Success 200 {object} dto.TalentSearchResponse
// @Failure 402 {object} apperrors.ErrorResponse
// @Router /api/v1/companies/{companyId}/talent/search [post]
func (h *LedgerHandler) TalentSearch(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.TalentSearchRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	res, err := h.talentService.Search(h.GetDB(c), userID, c.Param("companyId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
