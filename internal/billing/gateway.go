package billing

import (
	"errors"

	"jobboard_backend/internal/models"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrUnknownPrice     = errors.New("no price configured")
)

// CheckoutSession is a hosted payment page the client is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

type SubscriptionCheckout struct {
	CompanyID     string
	Plan          models.Plan
	CustomerEmail string
}

type CreditPackCheckout struct {
	CompanyID     string
	CreditType    models.CreditType
	Quantity      int
	CustomerEmail string
}

// Gateway is the outbound side of the payment provider.
type Gateway interface {
	CreateSubscriptionCheckout(req SubscriptionCheckout) (*CheckoutSession, error)
	CreateCreditPackCheckout(req CreditPackCheckout) (*CheckoutSession, error)
	// VerifyEvent checks the signature header and decodes the delivery.
	VerifyEvent(payload []byte, signatureHeader string) (Event, error)
	// LookupSubscription fetches the live subscription from the provider.
	LookupSubscription(id string) (*SubscriptionObject, error)
}
