package services

import (
	"errors"
	"fmt"

	"jobboard_backend/database"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/billing"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/metrics"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const providerStripe = "stripe"

type BillingService interface {
	// HandleEvent applies one verified provider event. A returned error means
	// the event was not applied and the provider should redeliver it.
	HandleEvent(e database.Elevated, event billing.Event) error

	CreateSubscriptionCheckout(db *gorm.DB, userID, email, companyID string, req *dto.SubscriptionCheckoutRequest) (*dto.CheckoutResponse, error)
	CreateCreditCheckout(db *gorm.DB, userID, email, companyID string, req *dto.CreditCheckoutRequest) (*dto.CheckoutResponse, error)
}

type billingService struct {
	eventRepo     repositories.BillingEventRepository
	subscriptions SubscriptionService
	gateway       billing.Gateway
	access        companyAccess
}

func NewBillingService(
	eventRepo repositories.BillingEventRepository,
	companyRepo repositories.CompanyRepository,
	subscriptions SubscriptionService,
	gateway billing.Gateway,
) BillingService {
	return &billingService{
		eventRepo:     eventRepo,
		subscriptions: subscriptions,
		gateway:       gateway,
		access:        newCompanyAccess(companyRepo),
	}
}

// =======================
// Webhook dispatch
// =======================

func (s *billingService) HandleEvent(e database.Elevated, event billing.Event) error {
	db := e.DB()
	ctx := dbContext(db)

	record := &models.BillingEvent{
		Provider:        providerStripe,
		ProviderEventID: event.ID,
		Type:            event.Type,
		Payload:         datatypes.JSON(event.Object),
	}
	err := s.eventRepo.Record(db, record)
	if errors.Is(err, repositories.ErrBillingEventDuplicate) {
		existing, findErr := s.eventRepo.FindByProviderID(db, event.ID)
		if findErr != nil {
			return fmt.Errorf("load recorded event: %w", findErr)
		}
		if existing.ProcessedAt != nil {
			metrics.BillingEvents.WithLabelValues(event.Type, "replay").Inc()
			logger.BillingLog(event.ID, event.Type, "replay_skipped", nil)
			return nil
		}
		// Recorded by an earlier delivery that failed midway.
		record = existing
	} else if err != nil {
		metrics.BillingEvents.WithLabelValues(event.Type, "error").Inc()
		return fmt.Errorf("record billing event: %w", err)
	}

	outcome, dispatchErr := s.dispatch(e, event)

	var processingErr *string
	switch {
	case errors.Is(dispatchErr, ErrMissingCorrelation):
		msg := dispatchErr.Error()
		processingErr = &msg
		outcome = models.BillingOutcomeSkipped
		logger.CtxWarn(ctx, "billing event not correlated", "event_id", event.ID,
			"event_type", event.Type, "reason", msg)
	case dispatchErr != nil:
		metrics.BillingEvents.WithLabelValues(event.Type, "error").Inc()
		logger.BillingLog(event.ID, event.Type, "failed", dispatchErr)
		return dispatchErr
	}

	if err := s.eventRepo.MarkProcessed(db, record.ID, outcome, processingErr); err != nil {
		metrics.BillingEvents.WithLabelValues(event.Type, "error").Inc()
		return fmt.Errorf("mark billing event processed: %w", err)
	}

	metrics.BillingEvents.WithLabelValues(event.Type, outcome).Inc()
	logger.BillingLog(event.ID, event.Type, outcome, nil)
	return nil
}

func (s *billingService) dispatch(e database.Elevated, event billing.Event) (string, error) {
	switch event.Type {
	case billing.EventSubscriptionCreated, billing.EventSubscriptionUpdated, billing.EventSubscriptionDeleted:
		obj, err := event.DecodeSubscription()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMissingCorrelation, err)
		}
		return models.BillingOutcomeProcessed, s.subscriptions.SyncSubscriptionFromEvent(e, event.Type, obj)

	case billing.EventInvoicePaymentSucceeded:
		inv, err := event.DecodeInvoice()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMissingCorrelation, err)
		}
		return models.BillingOutcomeProcessed, s.subscriptions.InvoicePaymentSucceeded(e, inv)

	case billing.EventInvoicePaymentFailed:
		inv, err := event.DecodeInvoice()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMissingCorrelation, err)
		}
		return models.BillingOutcomeProcessed, s.subscriptions.InvoicePaymentFailed(e, inv)

	case billing.EventCheckoutCompleted:
		session, err := event.DecodeCheckoutSession()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMissingCorrelation, err)
		}
		return models.BillingOutcomeProcessed, s.subscriptions.CheckoutCompleted(e, session)
	}

	return models.BillingOutcomeIgnored, nil
}

// =======================
// Checkout
// =======================

func (s *billingService) CreateSubscriptionCheckout(db *gorm.DB, userID, email, companyID string, req *dto.SubscriptionCheckoutRequest) (*dto.CheckoutResponse, error) {
	if _, err := s.access.require(db, userID, companyID, auth.ActionManage); err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateSubscriptionCheckout(billing.SubscriptionCheckout{
		CompanyID:     companyID,
		Plan:          req.Plan,
		CustomerEmail: email,
	})
	if err != nil {
		return nil, checkoutError(db, err)
	}
	return &dto.CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}

func (s *billingService) CreateCreditCheckout(db *gorm.DB, userID, email, companyID string, req *dto.CreditCheckoutRequest) (*dto.CheckoutResponse, error) {
	if _, err := s.access.require(db, userID, companyID, auth.ActionManage); err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateCreditPackCheckout(billing.CreditPackCheckout{
		CompanyID:     companyID,
		CreditType:    req.CreditType,
		Quantity:      req.Quantity,
		CustomerEmail: email,
	})
	if err != nil {
		return nil, checkoutError(db, err)
	}
	return &dto.CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}

func checkoutError(db *gorm.DB, err error) error {
	if errors.Is(err, billing.ErrUnknownPrice) {
		return apperrors.ErrInvalidOperation("payment", "This product is not available for purchase")
	}
	logger.CtxWithError(dbContext(db), "checkout session failed", err)
	return apperrors.ErrPaymentProvider.WithError(err)
}
