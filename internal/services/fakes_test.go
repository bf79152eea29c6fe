package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"jobboard_backend/internal/billing"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"

	"gorm.io/gorm"
)

var testPrices = config.Prices{
	ProMonthly:        "price_pro",
	EnterpriseMonthly: "price_ent",
	JobPostCredit:     "price_job",
	TalentSearchPack:  "price_talent",
}

type fakeMailer struct {
	mu      sync.Mutex
	invites []email.InterviewInvite
	err     error
}

func (m *fakeMailer) SendInterviewInvite(_ context.Context, invite email.InterviewInvite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites = append(m.invites, invite)
	return m.err
}

func (m *fakeMailer) sent() []email.InterviewInvite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]email.InterviewInvite(nil), m.invites...)
}

type fakeGateway struct {
	subscriptions map[string]*billing.SubscriptionObject
	checkouts     []any
	checkoutErr   error
	lookups       int
}

func (g *fakeGateway) CreateSubscriptionCheckout(req billing.SubscriptionCheckout) (*billing.CheckoutSession, error) {
	g.checkouts = append(g.checkouts, req)
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	return &billing.CheckoutSession{ID: "cs_sub", URL: "https://pay.test/cs_sub"}, nil
}

func (g *fakeGateway) CreateCreditPackCheckout(req billing.CreditPackCheckout) (*billing.CheckoutSession, error) {
	g.checkouts = append(g.checkouts, req)
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	return &billing.CheckoutSession{ID: "cs_pack", URL: "https://pay.test/cs_pack"}, nil
}

func (g *fakeGateway) VerifyEvent([]byte, string) (billing.Event, error) {
	return billing.Event{}, errors.New("not used")
}

func (g *fakeGateway) LookupSubscription(id string) (*billing.SubscriptionObject, error) {
	g.lookups++
	if sub, ok := g.subscriptions[id]; ok {
		return sub, nil
	}
	return nil, errors.New("no such subscription")
}

// stuckStatusRepo stores everything but never moves a status.
type stuckStatusRepo struct {
	repositories.ApplicationRepository
	err error
}

func (r stuckStatusRepo) UpdateStatus(*gorm.DB, string, models.ApplicationStatus, models.ApplicationStatus, time.Time) (bool, error) {
	return false, r.err
}

type ledgerFixture struct {
	credits       CreditService
	subscriptions SubscriptionService
	billing       BillingService
	gateway       *fakeGateway
}

func newLedgerFixture() ledgerFixture {
	gateway := &fakeGateway{subscriptions: map[string]*billing.SubscriptionObject{}}
	companyRepo := repositories.NewCompanyRepository()
	credits := NewCreditService(repositories.NewCreditRepository(), companyRepo)
	subscriptions := NewSubscriptionService(repositories.NewSubscriptionRepository(), companyRepo,
		credits, gateway, billing.NewCatalog(testPrices), 5)
	return ledgerFixture{
		credits:       credits,
		subscriptions: subscriptions,
		billing:       NewBillingService(repositories.NewBillingEventRepository(), companyRepo, subscriptions, gateway),
		gateway:       gateway,
	}
}
