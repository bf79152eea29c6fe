package billing

import (
	"fmt"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"jobboard_backend/internal/config"
)

type StripeGateway struct {
	api           *client.API
	catalog       Catalog
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeGateway(cfg *config.Config) *StripeGateway {
	return &StripeGateway{
		api:           client.New(cfg.Billing.SecretKey, nil),
		catalog:       NewCatalog(cfg.Billing.Prices),
		webhookSecret: cfg.Billing.WebhookSecret,
		successURL:    cfg.Billing.SuccessURL,
		cancelURL:     cfg.Billing.CancelURL,
	}
}

func (g *StripeGateway) CreateSubscriptionCheckout(req SubscriptionCheckout) (*CheckoutSession, error) {
	price, ok := g.catalog.PriceForPlan(req.Plan)
	if !ok {
		return nil, fmt.Errorf("%w for plan %s", ErrUnknownPrice, req.Plan)
	}

	meta := map[string]string{
		MetaCompanyID: req.CompanyID,
		MetaKind:      KindSubscription,
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(price), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		ClientReferenceID: stripe.String(req.CompanyID),
		// Subscription events carry their own metadata, not the session's.
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{Metadata: meta},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range meta {
		params.AddMetadata(k, v)
	}

	return g.newSession(params)
}

func (g *StripeGateway) CreateCreditPackCheckout(req CreditPackCheckout) (*CheckoutSession, error) {
	price, ok := g.catalog.PriceForCredit(req.CreditType)
	if !ok {
		return nil, fmt.Errorf("%w for credit type %s", ErrUnknownPrice, req.CreditType)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(price), Quantity: stripe.Int64(int64(req.Quantity))},
		},
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		ClientReferenceID: stripe.String(req.CompanyID),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.AddMetadata(MetaCompanyID, req.CompanyID)
	params.AddMetadata(MetaKind, KindCreditPack)
	params.AddMetadata(MetaCreditType, string(req.CreditType))
	params.AddMetadata(MetaQuantity, strconv.Itoa(req.Quantity))

	return g.newSession(params)
}

func (g *StripeGateway) newSession(params *stripe.CheckoutSessionParams) (*CheckoutSession, error) {
	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) VerifyEvent(payload []byte, signatureHeader string) (Event, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signatureHeader, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := Event{
		ID:      ev.ID,
		Type:    string(ev.Type),
		Created: time.Unix(ev.Created, 0).UTC(),
	}
	if ev.Data != nil {
		out.Object = ev.Data.Raw
	}
	return out, nil
}

func (g *StripeGateway) LookupSubscription(id string) (*SubscriptionObject, error) {
	sub, err := g.api.Subscriptions.Get(id, nil)
	if err != nil {
		return nil, fmt.Errorf("stripe get subscription %s: %w", id, err)
	}

	obj := &SubscriptionObject{
		ID:                 sub.ID,
		Status:             string(sub.Status),
		Metadata:           sub.Metadata,
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
	}
	if sub.Customer != nil {
		obj.Customer = sub.Customer.ID
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item.Price == nil {
				continue
			}
			obj.Items.Data = append(obj.Items.Data, SubscriptionItem{Price: Price{ID: item.Price.ID}})
		}
	}
	return obj, nil
}
