package services

import (
	"testing"

	"jobboard_backend/database"
	"jobboard_backend/internal/billing"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/pkg/apperrors"
	"jobboard_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscriptionObject(id, companyID, status, price string) billing.SubscriptionObject {
	obj := billing.SubscriptionObject{
		ID:                 id,
		Customer:           "cus_1",
		Status:             status,
		CurrentPeriodStart: 1_700_000_000,
		CurrentPeriodEnd:   1_702_592_000,
	}
	if companyID != "" {
		obj.Metadata = map[string]string{billing.MetaCompanyID: companyID}
	}
	obj.Items.Data = []billing.SubscriptionItem{{Price: billing.Price{ID: price}}}
	return obj
}

func TestGetSubscription_DefaultsToFree(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newLedgerFixture()

	sub, err := f.subscriptions.GetSubscription(database.NewScoped(db, "u"), "company-without-row")
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, sub.Plan)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
}

func TestRequirePlan(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newLedgerFixture()
	owner := helpers.CreateUser(t, db, "owner")
	company := helpers.CreateCompany(t, db, owner)
	h := database.NewScoped(db, owner.ID)

	assert.ErrorIs(t, f.subscriptions.RequirePlan(h, company.ID, models.PlanPro), apperrors.ErrPlanRequired)

	helpers.SetPlan(t, db, company.ID, models.PlanEnterprise)
	assert.NoError(t, f.subscriptions.RequirePlan(h, company.ID, models.PlanPro))
	assert.NoError(t, f.subscriptions.RequirePlan(h, company.ID, models.PlanEnterprise))
}

func TestSyncSubscription_ReplayIsStable(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newLedgerFixture()
	owner := helpers.CreateUser(t, db, "owner")
	company := helpers.CreateCompany(t, db, owner)
	e := database.NewElevated(db)
	obj := subscriptionObject("sub_1", company.ID, "active", "price_pro")

	require.NoError(t, f.subscriptions.SyncSubscriptionFromEvent(e, billing.EventSubscriptionUpdated, obj))
	require.NoError(t, f.subscriptions.SyncSubscriptionFromEvent(e, billing.EventSubscriptionUpdated, obj))

	var rows []models.Subscription
	require.NoError(t, db.Where("company_id = ?", company.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.PlanPro, rows[0].Plan)
	assert.Equal(t, models.SubscriptionStatusActive, rows[0].Status)
	require.NotNil(t, rows[0].ExternalSubscriptionID)
	assert.Equal(t, "sub_1", *rows[0].ExternalSubscriptionID)
	require.NotNil(t, rows[0].CurrentPeriodEnd)
}

func TestSyncSubscription_DeletedDowngrades(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newLedgerFixture()
	owner := helpers.CreateUser(t, db, "owner")
	company := helpers.CreateCompany(t, db, owner)
	e := database.NewElevated(db)

	require.NoError(t, f.subscriptions.SyncSubscriptionFromEvent(e, billing.EventSubscriptionCreated,
		subscriptionObject("sub_1", company.ID, "active", "price_ent")))
	// Deletion payloads may lack metadata; the stored row resolves the company.
	require.NoError(t, f.subscriptions.SyncSubscriptionFromEvent(e, billing.EventSubscriptionDeleted,
		subscriptionObject("sub_1", "", "canceled", "price_ent")))

	sub, err := repositories.NewSubscriptionRepository().FindByCompany(db, company.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, sub.Plan)
	assert.Equal(t, models.SubscriptionStatusCanceled, sub.Status)
	assert.Nil(t, sub.ExternalSubscriptionID)
	require.NotNil(t, sub.ExternalCustomerID)
	assert.Equal(t, "cus_1", *sub.ExternalCustomerID)
}

func TestSyncSubscription_UnknownCompany(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newLedgerFixture()

	err := f.subscriptions.SyncSubscriptionFromEvent(database.NewElevated(db), billing.EventSubscriptionUpdated,
		subscriptionObject("sub_x", "", "active", "price_pro"))
	assert.ErrorIs(t, err, ErrMissingCorrelation)

	err = f.subscriptions.SyncSubscriptionFromEvent(database.NewElevated(db), billing.EventSubscriptionUpdated,
		subscriptionObject("sub_y", "no-such-company", "active", "price_pro"))
	assert.ErrorIs(t, err, ErrMissingCorrelation)

	var n int64
	require.NoError(t, db.Model(&models.Subscription{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestInvoicePaymentFailed_MarksPastDue(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newLedgerFixture()
	owner := helpers.CreateUser(t, db, "owner")
	company := helpers.CreateCompany(t, db, owner)
	e := database.NewElevated(db)

	require.NoError(t, f.subscriptions.SyncSubscriptionFromEvent(e, billing.EventSubscriptionCreated,
		subscriptionObject("sub_1", company.ID, "active", "price_pro")))
	require.NoError(t, f.subscriptions.InvoicePaymentFailed(e, billing.InvoiceObject{ID: "in_1", Subscription: "sub_1"}))

	sub, err := f.subscriptions.GetSubscription(e, company.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPastDue, sub.Status)
	assert.Equal(t, models.PlanPro, sub.Plan)
}

func TestInvoicePaymentSucceeded_EnterpriseGrant(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newLedgerFixture()
	owner := helpers.CreateUser(t, db, "owner")
	company := helpers.CreateCompany(t, db, owner)
	e := database.NewElevated(db)

	require.NoError(t, f.subscriptions.SyncSubscriptionFromEvent(e, billing.EventSubscriptionCreated,
		subscriptionObject("sub_1", company.ID, "active", "price_ent")))

	inv := billing.InvoiceObject{ID: "in_1", Subscription: "sub_1"}
	require.NoError(t, f.subscriptions.InvoicePaymentSucceeded(e, inv))
	require.NoError(t, f.subscriptions.InvoicePaymentSucceeded(e, inv))

	assert.Equal(t, 5, helpers.Balance(t, db, company.ID).TalentSearchCredits)
	assert.EqualValues(t, 1, helpers.CountTransactions(t, db, company.ID))
}

func TestInvoicePaymentSucceeded_ProHasNoGrant(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newLedgerFixture()
	owner := helpers.CreateUser(t, db, "owner")
	company := helpers.CreateCompany(t, db, owner)
	e := database.NewElevated(db)

	inv := billing.InvoiceObject{ID: "in_2", Metadata: map[string]string{billing.MetaCompanyID: company.ID}}
	inv.Lines.Data = []billing.InvoiceLine{{Price: &billing.Price{ID: "price_pro"}}}

	require.NoError(t, f.subscriptions.InvoicePaymentSucceeded(e, inv))
	assert.Zero(t, helpers.CountTransactions(t, db, company.ID))
}

func TestInvoiceCompanyFromProvider(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newLedgerFixture()
	owner := helpers.CreateUser(t, db, "owner")
	company := helpers.CreateCompany(t, db, owner)
	live := subscriptionObject("sub_live", company.ID, "active", "price_ent")
	f.gateway.subscriptions["sub_live"] = &live

	require.NoError(t, f.subscriptions.InvoicePaymentSucceeded(database.NewElevated(db),
		billing.InvoiceObject{ID: "in_3", Subscription: "sub_live"}))

	assert.Equal(t, 5, helpers.Balance(t, db, company.ID).TalentSearchCredits)
	assert.Positive(t, f.gateway.lookups)
}

func TestCheckoutCompleted_CreditPack(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newLedgerFixture()
	owner := helpers.CreateUser(t, db, "owner")
	company := helpers.CreateCompany(t, db, owner)
	e := database.NewElevated(db)

	session := billing.CheckoutSessionObject{
		ID:            "cs_1",
		Mode:          "payment",
		PaymentStatus: "paid",
		PaymentIntent: "pi_1",
		Metadata: map[string]string{
			billing.MetaCompanyID:  company.ID,
			billing.MetaCreditType: string(models.CreditTypeJobPost),
			billing.MetaQuantity:   "3",
		},
	}
	require.NoError(t, f.subscriptions.CheckoutCompleted(e, session))
	require.NoError(t, f.subscriptions.CheckoutCompleted(e, session))
	assert.Equal(t, 3, helpers.Balance(t, db, company.ID).JobPostCredits)

	unpaid := session
	unpaid.ID, unpaid.PaymentIntent, unpaid.PaymentStatus = "cs_2", "pi_2", "unpaid"
	require.NoError(t, f.subscriptions.CheckoutCompleted(e, unpaid))
	assert.Equal(t, 3, helpers.Balance(t, db, company.ID).JobPostCredits)

	missing := billing.CheckoutSessionObject{ID: "cs_3", Mode: "payment", PaymentStatus: "paid"}
	assert.ErrorIs(t, f.subscriptions.CheckoutCompleted(e, missing), ErrMissingCorrelation)
}
