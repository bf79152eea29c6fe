package handlers

import (
	"errors"
	"io"
	"net/http"

	"jobboard_backend/database"
	"jobboard_backend/internal/billing"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/services"
	"jobboard_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	*BaseHandler
	gateway        billing.Gateway
	billingService services.BillingService
}

func NewWebhookHandler(base *BaseHandler, gateway billing.Gateway, billingService services.BillingService) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:    base,
		gateway:        gateway,
		billingService: billingService,
	}
}

func (h *WebhookHandler) RegisterRoutes(public, _ *gin.RouterGroup) {
	public.POST("/billing/webhook", h.HandleWebhook)
}

// HandleWebhook godoc
// @Summary Payment provider webhook
// @Description Signed by the provider. 5xx responses make the provider retry.
// @Tags billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} apperrors.ErrorResponse "Bad signature"
// @Failure 413 {object} apperrors.ErrorResponse "Body too large"
// @Router /api/v1/billing/webhook [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.CtxWarn(ctx, "webhook body over limit", "limit", tooLarge.Limit)
			apperrors.HandleError(c, apperrors.ErrWebhookPayloadTooLarge)
			return
		}
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unreadable body"))
		return
	}

	event, err := h.gateway.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			logger.CtxWarn(ctx, "webhook signature rejected", "error", err.Error())
			apperrors.HandleError(c, apperrors.ErrInvalidWebhookSignature)
			return
		}
		apperrors.HandleError(c, apperrors.NewBadRequestError("Malformed event"))
		return
	}

	// The provider is trusted once the signature checks out.
	elevated := database.NewElevated(h.GetDB(c))
	if err := h.billingService.HandleEvent(elevated, event); err != nil {
		logger.CtxWithError(ctx, "webhook processing failed", err, "event_id", event.ID, "event_type", event.Type)
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
