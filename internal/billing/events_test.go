package billing

import (
	"encoding/json"
	"testing"
	"time"

	"jobboard_backend/internal/config"
	"jobboard_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

func TestEvent_DecodeSubscription(t *testing.T) {
	ev := Event{ID: "evt_1", Type: EventSubscriptionUpdated, Object: json.RawMessage(`{
		"id": "sub_1",
		"customer": "cus_1",
		"status": "past_due",
		"metadata": {"company_id": "c-1"},
		"current_period_end": 1893456000,
		"items": {"data": [{"price": {"id": "price_pro"}}]}
	}`)}

	sub, err := ev.DecodeSubscription()
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sub.ID)
	assert.Equal(t, "c-1", sub.Metadata[MetaCompanyID])
	assert.Equal(t, "price_pro", sub.PriceID())
	assert.Nil(t, sub.PeriodStart())
	require.NotNil(t, sub.PeriodEnd())
	assert.Equal(t, 2030, sub.PeriodEnd().Year())
}

func TestEvent_DecodeInvoice(t *testing.T) {
	ev := Event{ID: "evt_2", Type: EventInvoicePaymentSucceeded, Object: json.RawMessage(`{
		"id": "in_1",
		"subscription": "sub_1",
		"subscription_details": {"metadata": {"company_id": "c-9"}},
		"lines": {"data": [{"price": {"id": "price_ent"}}, {"price": null}]}
	}`)}

	inv, err := ev.DecodeInvoice()
	require.NoError(t, err)
	assert.Equal(t, "c-9", inv.CompanyID())
	assert.Equal(t, []string{"price_ent"}, inv.PriceIDs())
}

func TestCheckoutSession_CreditPack(t *testing.T) {
	s := CheckoutSessionObject{
		ID:            "cs_1",
		Mode:          "payment",
		PaymentIntent: "pi_1",
		Metadata:      map[string]string{MetaCreditType: "job_post", MetaQuantity: "3"},
	}
	creditType, qty, ok := s.CreditPack()
	assert.True(t, ok)
	assert.Equal(t, models.CreditTypeJobPost, creditType)
	assert.Equal(t, 3, qty)
	assert.Equal(t, "pi_1", s.PaymentRef())

	s.Metadata[MetaQuantity] = "zero"
	_, _, ok = s.CreditPack()
	assert.False(t, ok)
}

func TestEvent_DecodeEmptyObject(t *testing.T) {
	_, err := Event{ID: "evt_3", Type: EventCheckoutCompleted}.DecodeCheckoutSession()
	assert.Error(t, err)
}

func TestStripeGateway_VerifyEvent(t *testing.T) {
	cfg := &config.Config{}
	cfg.Billing.WebhookSecret = "whsec_test"
	g := NewStripeGateway(cfg)

	payload := []byte(`{
		"id": "evt_sig",
		"object": "event",
		"type": "invoice.payment_failed",
		"created": 1700000000,
		"data": {"object": {"id": "in_7", "subscription": "sub_7"}}
	}`)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_test",
		Timestamp: time.Now(),
	})

	ev, err := g.VerifyEvent(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, "evt_sig", ev.ID)
	assert.Equal(t, EventInvoicePaymentFailed, ev.Type)

	inv, err := ev.DecodeInvoice()
	require.NoError(t, err)
	assert.Equal(t, "sub_7", inv.Subscription)

	_, err = g.VerifyEvent(payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
