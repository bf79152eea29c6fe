package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"jobboard_backend/database"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/billing"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrMissingCorrelation marks events that cannot be tied to one of our
// companies. They are acknowledged and never retried.
var ErrMissingCorrelation = errors.New("event cannot be correlated to a company")

type SubscriptionService interface {
	// GetSubscription returns a synthetic free/active subscription when no row exists.
	GetSubscription(h database.Handle, companyID string) (*models.Subscription, error)
	GetCompanySubscription(db *gorm.DB, userID, companyID string) (*dto.SubscriptionResponse, error)
	RequirePlan(h database.Handle, companyID string, threshold models.Plan) error

	SyncSubscriptionFromEvent(e database.Elevated, eventType string, sub billing.SubscriptionObject) error
	InvoicePaymentSucceeded(e database.Elevated, inv billing.InvoiceObject) error
	InvoicePaymentFailed(e database.Elevated, inv billing.InvoiceObject) error
	CheckoutCompleted(e database.Elevated, session billing.CheckoutSessionObject) error
}

type subscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
	companyRepo      repositories.CompanyRepository
	credits          CreditService
	gateway          billing.Gateway
	catalog          billing.Catalog
	monthlyGrant     int
	access           companyAccess
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepository,
	companyRepo repositories.CompanyRepository,
	credits CreditService,
	gateway billing.Gateway,
	catalog billing.Catalog,
	monthlyGrant int,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		companyRepo:      companyRepo,
		credits:          credits,
		gateway:          gateway,
		catalog:          catalog,
		monthlyGrant:     monthlyGrant,
		access:           newCompanyAccess(companyRepo),
	}
}

// =======================
// Reads & plan gating
// =======================

func (s *subscriptionService) GetSubscription(h database.Handle, companyID string) (*models.Subscription, error) {
	sub, err := s.subscriptionRepo.FindByCompany(h.DB(), companyID)
	if err == nil {
		return sub, nil
	}
	if errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return &models.Subscription{
			CompanyID: companyID,
			Plan:      models.PlanFree,
			Status:    models.SubscriptionStatusActive,
		}, nil
	}
	return nil, apperrors.InternalError(err)
}

func (s *subscriptionService) GetCompanySubscription(db *gorm.DB, userID, companyID string) (*dto.SubscriptionResponse, error) {
	if _, err := s.access.require(db, userID, companyID, auth.ActionView); err != nil {
		return nil, err
	}
	sub, err := s.GetSubscription(database.NewScoped(db, userID), companyID)
	if err != nil {
		return nil, err
	}
	return dto.NewSubscriptionResponse(sub), nil
}

func (s *subscriptionService) RequirePlan(h database.Handle, companyID string, threshold models.Plan) error {
	sub, err := s.GetSubscription(h, companyID)
	if err != nil {
		return err
	}
	if !models.IsAtLeast(sub.Plan, threshold) {
		return apperrors.ErrPlanRequired.WithDetails(map[string]string{
			"current_plan":  string(sub.Plan),
			"required_plan": string(threshold),
		})
	}
	return nil
}

// =======================
// Provider events
// =======================

func (s *subscriptionService) SyncSubscriptionFromEvent(e database.Elevated, eventType string, obj billing.SubscriptionObject) error {
	db := e.DB()
	ctx := dbContext(db)

	companyID, err := s.resolveSubscriptionCompany(ctx, db, obj)
	if err != nil {
		return err
	}

	if eventType == billing.EventSubscriptionDeleted {
		return s.downgradeToFree(ctx, db, companyID, obj)
	}

	var meta datatypes.JSON
	if len(obj.Metadata) > 0 {
		raw, err := json.Marshal(obj.Metadata)
		if err != nil {
			return fmt.Errorf("marshal subscription metadata: %w", err)
		}
		meta = datatypes.JSON(raw)
	}

	sub := &models.Subscription{
		CompanyID:              companyID,
		Plan:                   s.catalog.PlanForPrice(obj.PriceID()),
		Status:                 billing.MapStatus(obj.Status),
		ExternalCustomerID:     optional(obj.Customer),
		ExternalSubscriptionID: optional(obj.ID),
		PriceID:                obj.PriceID(),
		CurrentPeriodStart:     obj.PeriodStart(),
		CurrentPeriodEnd:       obj.PeriodEnd(),
		Metadata:               meta,
	}
	if err := s.subscriptionRepo.Upsert(db, sub); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	logger.CtxInfo(ctx, "subscription synced", "company_id", companyID,
		"plan", sub.Plan, "status", sub.Status, "external_status", obj.Status)
	return nil
}

// downgradeToFree keeps the row and the customer reference.
func (s *subscriptionService) downgradeToFree(ctx context.Context, db *gorm.DB, companyID string, obj billing.SubscriptionObject) error {
	sub, err := s.subscriptionRepo.FindByCompany(db, companyID)
	if err != nil {
		if !errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return err
		}
		sub = &models.Subscription{CompanyID: companyID, ExternalCustomerID: optional(obj.Customer)}
	}

	sub.Plan = models.PlanFree
	sub.Status = models.SubscriptionStatusCanceled
	sub.ExternalSubscriptionID = nil
	sub.PriceID = ""
	sub.CurrentPeriodStart = nil
	sub.CurrentPeriodEnd = nil

	if err := s.subscriptionRepo.Upsert(db, sub); err != nil {
		return fmt.Errorf("downgrade subscription: %w", err)
	}
	logger.CtxInfo(ctx, "subscription canceled, downgraded to free", "company_id", companyID)
	return nil
}

func (s *subscriptionService) InvoicePaymentSucceeded(e database.Elevated, inv billing.InvoiceObject) error {
	db := e.DB()
	ctx := dbContext(db)

	companyID, err := s.resolveInvoiceCompany(ctx, db, inv)
	if err != nil {
		return err
	}

	price, _ := FirstDefinite(ctx,
		LookupStrategy[string]{
			Name: "invoice_lines",
			Find: func(context.Context) (string, bool, error) {
				ids := inv.PriceIDs()
				for _, id := range ids {
					if s.catalog.IsEnterprisePrice(id) {
						return id, true, nil
					}
				}
				if len(ids) > 0 {
					return ids[0], true, nil
				}
				return "", false, nil
			},
		},
		LookupStrategy[string]{
			Name: "stored_subscription",
			Find: func(context.Context) (string, bool, error) {
				sub, err := s.subscriptionRepo.FindByCompany(db, companyID)
				if errors.Is(err, repositories.ErrSubscriptionNotFound) {
					return "", false, nil
				}
				if err != nil {
					return "", false, err
				}
				return sub.PriceID, sub.PriceID != "", nil
			},
		},
		s.providerSubscription(inv.Subscription, func(obj *billing.SubscriptionObject) (string, bool) {
			return obj.PriceID(), obj.PriceID() != ""
		}),
	)

	if !s.catalog.IsEnterprisePrice(price) {
		logger.CtxDebug(ctx, "paid invoice carries no monthly grant", "company_id", companyID, "invoice", inv.ID)
		return nil
	}

	return s.credits.Add(e, companyID, models.CreditTypeTalentSearch, s.monthlyGrant,
		models.CreditReasonMonthlyGrant, inv.ID)
}

func (s *subscriptionService) InvoicePaymentFailed(e database.Elevated, inv billing.InvoiceObject) error {
	db := e.DB()
	ctx := dbContext(db)

	companyID, err := s.resolveInvoiceCompany(ctx, db, inv)
	if err != nil {
		return err
	}

	updated, err := s.subscriptionRepo.UpdateStatus(db, companyID, models.SubscriptionStatusPastDue)
	if err != nil {
		return fmt.Errorf("mark subscription past_due: %w", err)
	}
	if !updated {
		logger.CtxWarn(ctx, "payment failed for company without subscription row", "company_id", companyID, "invoice", inv.ID)
		return nil
	}
	logger.CtxWarn(ctx, "subscription past due", "company_id", companyID, "invoice", inv.ID)
	return nil
}

// CheckoutCompleted credits one-time credit pack purchases. Subscription
// checkouts are ignored: the subscription events carry that state.
func (s *subscriptionService) CheckoutCompleted(e database.Elevated, session billing.CheckoutSessionObject) error {
	db := e.DB()
	ctx := dbContext(db)

	if session.Mode == "subscription" {
		logger.CtxDebug(ctx, "subscription checkout completed", "session", session.ID)
		return nil
	}
	if session.PaymentStatus != "" && session.PaymentStatus != "paid" {
		logger.CtxInfo(ctx, "checkout completed without payment", "session", session.ID,
			"payment_status", session.PaymentStatus)
		return nil
	}

	companyID := session.Metadata[billing.MetaCompanyID]
	if companyID == "" {
		return fmt.Errorf("%w: checkout %s has no company_id", ErrMissingCorrelation, session.ID)
	}
	creditType, qty, ok := session.CreditPack()
	if !ok {
		return fmt.Errorf("%w: checkout %s has no credit pack metadata", ErrMissingCorrelation, session.ID)
	}
	if err := s.ensureCompany(db, companyID); err != nil {
		return err
	}

	return s.credits.Add(e, companyID, creditType, qty, models.CreditReasonPurchase, session.PaymentRef())
}

// =======================
// Correlation
// =======================

func (s *subscriptionService) resolveSubscriptionCompany(ctx context.Context, db *gorm.DB, obj billing.SubscriptionObject) (string, error) {
	companyID, found := FirstDefinite(ctx,
		metadataCompany(obj.Metadata),
		s.storedSubscriptionCompany(db, obj.ID),
	)
	if !found {
		return "", fmt.Errorf("%w: subscription %s", ErrMissingCorrelation, obj.ID)
	}
	return companyID, s.ensureCompany(db, companyID)
}

func (s *subscriptionService) resolveInvoiceCompany(ctx context.Context, db *gorm.DB, inv billing.InvoiceObject) (string, error) {
	companyID, found := FirstDefinite(ctx,
		LookupStrategy[string]{
			Name: "invoice_metadata",
			Find: func(context.Context) (string, bool, error) {
				id := inv.CompanyID()
				return id, id != "", nil
			},
		},
		s.storedSubscriptionCompany(db, inv.Subscription),
		s.providerSubscription(inv.Subscription, func(obj *billing.SubscriptionObject) (string, bool) {
			id := obj.Metadata[billing.MetaCompanyID]
			return id, id != ""
		}),
	)
	if !found {
		return "", fmt.Errorf("%w: invoice %s", ErrMissingCorrelation, inv.ID)
	}
	return companyID, s.ensureCompany(db, companyID)
}

func (s *subscriptionService) ensureCompany(db *gorm.DB, companyID string) error {
	if _, err := s.companyRepo.FindByID(db, companyID); err != nil {
		if errors.Is(err, repositories.ErrCompanyNotFound) {
			return fmt.Errorf("%w: unknown company %s", ErrMissingCorrelation, companyID)
		}
		return err
	}
	return nil
}

func metadataCompany(meta map[string]string) LookupStrategy[string] {
	return LookupStrategy[string]{
		Name: "metadata",
		Find: func(context.Context) (string, bool, error) {
			id := meta[billing.MetaCompanyID]
			return id, id != "", nil
		},
	}
}

func (s *subscriptionService) storedSubscriptionCompany(db *gorm.DB, externalID string) LookupStrategy[string] {
	return LookupStrategy[string]{
		Name: "stored_subscription",
		Find: func(context.Context) (string, bool, error) {
			if externalID == "" {
				return "", false, nil
			}
			sub, err := s.subscriptionRepo.FindByExternalID(db, externalID)
			if errors.Is(err, repositories.ErrSubscriptionNotFound) {
				return "", false, nil
			}
			if err != nil {
				return "", false, err
			}
			return sub.CompanyID, true, nil
		},
	}
}

func (s *subscriptionService) providerSubscription(externalID string, pick func(*billing.SubscriptionObject) (string, bool)) LookupStrategy[string] {
	return LookupStrategy[string]{
		Name: "provider_subscription",
		Find: func(context.Context) (string, bool, error) {
			if externalID == "" || s.gateway == nil {
				return "", false, nil
			}
			obj, err := s.gateway.LookupSubscription(externalID)
			if err != nil {
				return "", false, err
			}
			v, ok := pick(obj)
			return v, ok, nil
		},
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
