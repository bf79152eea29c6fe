package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"jobboard_backend/internal/app"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/billing"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/models"
	"jobboard_backend/test/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "integration_secret_for_tests"

type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Mailer *recordingMailer
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.TTL = 60
	cfg.Billing.MonthlyTalentGrant = 5
	cfg.Billing.Prices = config.Prices{
		ProMonthly:        "price_pro",
		EnterpriseMonthly: "price_enterprise",
		JobPostCredit:     "price_job_post",
		TalentSearchPack:  "price_talent",
	}

	db := helpers.NewTestDB(t)
	mailer := &recordingMailer{}
	router := app.SetupRouter(cfg, db, app.Dependencies{
		Mailer:  mailer,
		Gateway: jsonGateway{},
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{Server: server, DB: db, Mailer: mailer}
}

// Token issues a bearer token for user.
func (ts *TestServer) Token(t *testing.T, user *models.User) string {
	t.Helper()
	tok, err := auth.GenerateToken(user.ID, user.Email, user.FullName, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "encode request body")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.do(t, req)
}

func (ts *TestServer) SendWebhook(t *testing.T, signature string, event map[string]any) (*http.Response, string) {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/api/v1/billing/webhook", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Stripe-Signature", signature)

	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "send request")
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err, "read response")
	return res, string(b)
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal([]byte(body), &out), body)
	return out
}

type recordingMailer struct {
	mu      sync.Mutex
	invites []email.InterviewInvite
}

func (m *recordingMailer) SendInterviewInvite(_ context.Context, invite email.InterviewInvite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites = append(m.invites, invite)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.invites)
}

const validSignature = "t=1,v1=ok"

// jsonGateway accepts deliveries signed with validSignature and decodes them as-is.
type jsonGateway struct{}

func (jsonGateway) CreateSubscriptionCheckout(req billing.SubscriptionCheckout) (*billing.CheckoutSession, error) {
	return &billing.CheckoutSession{ID: "cs_sub_" + req.CompanyID, URL: "https://pay.test/sub"}, nil
}

func (jsonGateway) CreateCreditPackCheckout(req billing.CreditPackCheckout) (*billing.CheckoutSession, error) {
	return &billing.CheckoutSession{ID: "cs_pack_" + req.CompanyID, URL: "https://pay.test/pack"}, nil
}

func (jsonGateway) VerifyEvent(payload []byte, signatureHeader string) (billing.Event, error) {
	if signatureHeader != validSignature {
		return billing.Event{}, billing.ErrInvalidSignature
	}
	var ev billing.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return billing.Event{}, err
	}
	return ev, nil
}

func (jsonGateway) LookupSubscription(id string) (*billing.SubscriptionObject, error) {
	return nil, billing.ErrUnknownPrice
}
