package app

import (
	"errors"

	"jobboard_backend/internal/billing"
)

var errBillingDisabled = errors.New("billing is not configured")

// disabledGateway stands in for the payment provider when no secret key is
// set. Checkout fails; webhook signatures are still checked against the
// configured webhook secret.
type disabledGateway struct {
	*billing.StripeGateway
}

func (g disabledGateway) CreateSubscriptionCheckout(billing.SubscriptionCheckout) (*billing.CheckoutSession, error) {
	return nil, errBillingDisabled
}

func (g disabledGateway) CreateCreditPackCheckout(billing.CreditPackCheckout) (*billing.CheckoutSession, error) {
	return nil, errBillingDisabled
}

func (g disabledGateway) LookupSubscription(string) (*billing.SubscriptionObject, error) {
	return nil, errBillingDisabled
}
