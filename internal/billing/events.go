package billing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"jobboard_backend/internal/models"
)

const (
	EventCheckoutCompleted       = "checkout.session.completed"
	EventSubscriptionCreated     = "customer.subscription.created"
	EventSubscriptionUpdated     = "customer.subscription.updated"
	EventSubscriptionDeleted     = "customer.subscription.deleted"
	EventInvoicePaymentSucceeded = "invoice.payment_succeeded"
	EventInvoicePaymentFailed    = "invoice.payment_failed"
)

// Metadata keys echoed back by the provider on checkout and subscription objects.
const (
	MetaCompanyID  = "company_id"
	MetaCreditType = "credit_type"
	MetaQuantity   = "quantity"
	MetaKind       = "kind"

	KindSubscription = "subscription"
	KindCreditPack   = "credit_pack"
)

// Event is a verified webhook delivery. Object holds data.object undecoded.
type Event struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Created time.Time       `json:"created"`
	Object  json.RawMessage `json:"object"`
}

type SubscriptionObject struct {
	ID                 string            `json:"id"`
	Customer           string            `json:"customer"`
	Status             string            `json:"status"`
	Metadata           map[string]string `json:"metadata"`
	CurrentPeriodStart int64             `json:"current_period_start"`
	CurrentPeriodEnd   int64             `json:"current_period_end"`
	Items              struct {
		Data []SubscriptionItem `json:"data"`
	} `json:"items"`
}

type Price struct {
	ID string `json:"id"`
}

type SubscriptionItem struct {
	Price Price `json:"price"`
}

// PriceID is the price of the first subscription item.
func (s SubscriptionObject) PriceID() string {
	if len(s.Items.Data) == 0 {
		return ""
	}
	return s.Items.Data[0].Price.ID
}

func (s SubscriptionObject) PeriodStart() *time.Time { return unixPtr(s.CurrentPeriodStart) }
func (s SubscriptionObject) PeriodEnd() *time.Time   { return unixPtr(s.CurrentPeriodEnd) }

type InvoiceObject struct {
	ID                  string            `json:"id"`
	Customer            string            `json:"customer"`
	Subscription        string            `json:"subscription"`
	BillingReason       string            `json:"billing_reason"`
	Metadata            map[string]string `json:"metadata"`
	SubscriptionDetails *struct {
		Metadata map[string]string `json:"metadata"`
	} `json:"subscription_details"`
	Lines struct {
		Data []InvoiceLine `json:"data"`
	} `json:"lines"`
}

type InvoiceLine struct {
	Price *Price `json:"price"`
}

// CompanyID looks at the invoice and its subscription details metadata.
func (i InvoiceObject) CompanyID() string {
	if id := i.Metadata[MetaCompanyID]; id != "" {
		return id
	}
	if i.SubscriptionDetails != nil {
		return i.SubscriptionDetails.Metadata[MetaCompanyID]
	}
	return ""
}

func (i InvoiceObject) PriceIDs() []string {
	var ids []string
	for _, line := range i.Lines.Data {
		if line.Price != nil && line.Price.ID != "" {
			ids = append(ids, line.Price.ID)
		}
	}
	return ids
}

type CheckoutSessionObject struct {
	ID            string            `json:"id"`
	Mode          string            `json:"mode"`
	PaymentStatus string            `json:"payment_status"`
	PaymentIntent string            `json:"payment_intent"`
	Customer      string            `json:"customer"`
	Subscription  string            `json:"subscription"`
	Metadata      map[string]string `json:"metadata"`
}

// CreditPack extracts the credit type and quantity of a one-time purchase.
func (s CheckoutSessionObject) CreditPack() (models.CreditType, int, bool) {
	creditType := models.CreditType(s.Metadata[MetaCreditType])
	if !creditType.IsValid() {
		return "", 0, false
	}
	qty, err := strconv.Atoi(s.Metadata[MetaQuantity])
	if err != nil || qty <= 0 {
		return "", 0, false
	}
	return creditType, qty, true
}

// PaymentRef identifies the payment for ledger idempotency.
func (s CheckoutSessionObject) PaymentRef() string {
	if s.PaymentIntent != "" {
		return s.PaymentIntent
	}
	return s.ID
}

func (e Event) DecodeSubscription() (SubscriptionObject, error) {
	var obj SubscriptionObject
	return obj, e.decode(&obj)
}

func (e Event) DecodeInvoice() (InvoiceObject, error) {
	var obj InvoiceObject
	return obj, e.decode(&obj)
}

func (e Event) DecodeCheckoutSession() (CheckoutSessionObject, error) {
	var obj CheckoutSessionObject
	return obj, e.decode(&obj)
}

func (e Event) decode(dst any) error {
	if len(e.Object) == 0 {
		return fmt.Errorf("event %s has no data object", e.ID)
	}
	if err := json.Unmarshal(e.Object, dst); err != nil {
		return fmt.Errorf("decode %s object: %w", e.Type, err)
	}
	return nil
}

func unixPtr(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
