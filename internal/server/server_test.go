package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	authdomain "github.com/civistack/revena/internal/auth/domain"
	"github.com/civistack/revena/internal/config"
	ledgerdomain "github.com/civistack/revena/internal/ledger/domain"
	paymentdomain "github.com/civistack/revena/internal/payment/domain"
	registrationdomain "github.com/civistack/revena/internal/registration/domain"
	taxpayerdomain "github.com/civistack/revena/internal/taxpayer/domain"
)

type fakeRegistrationService struct {
	called  bool
	lastReq registrationdomain.Request
	err     error
}

func (f *fakeRegistrationService) Register(ctx context.Context, req registrationdomain.Request) (*registrationdomain.Result, error) {
	f.called = true
	f.lastReq = req
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	return &registrationdomain.Result{
		User:    &authdomain.User{ID: snowflake.ID(200), Email: req.Email, Role: authdomain.RoleTaxpayer},
		Profile: &taxpayerdomain.TaxpayerProfile{ID: snowflake.ID(300), UserID: snowflake.ID(200)},
		Ledger:  &ledgerdomain.AccountLedger{ID: snowflake.ID(400), ProfileID: snowflake.ID(300)},
	}, nil
}

type fakeAuthService struct {
	user       *authdomain.User
	loginCalls int
}

func (f *fakeAuthService) CreateUserInTx(ctx context.Context, tx *gorm.DB, req authdomain.CreateUserRequest) (*authdomain.User, error) {
	panic("unused")
}

func (f *fakeAuthService) CreateUser(ctx context.Context, req authdomain.CreateUserRequest) (*authdomain.User, error) {
	_ = ctx
	_ = req
	return f.user, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	f.loginCalls++
	_ = ctx
	if f.user == nil || req.Password != "s3cretpass" {
		return nil, authdomain.ErrInvalidCredentials
	}
	return &authdomain.LoginResult{
		User:     f.user,
		Session:  &authdomain.Session{ID: snowflake.ID(1), UserID: f.user.ID, ExpiresAt: time.Now().Add(time.Hour)},
		RawToken: "session-token",
	}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, rawToken string) error {
	_ = ctx
	_ = rawToken
	return nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (*authdomain.User, error) {
	_ = ctx
	if rawToken != "session-token" || f.user == nil {
		return nil, authdomain.ErrInvalidSession
	}
	return f.user, nil
}

func (f *fakeAuthService) GetUser(ctx context.Context, id snowflake.ID) (*authdomain.User, error) {
	_ = ctx
	_ = id
	return f.user, nil
}

func (f *fakeAuthService) ListUsers(ctx context.Context, limit, offset int) ([]authdomain.User, error) {
	_ = ctx
	_ = limit
	_ = offset
	return nil, nil
}

type fakePaymentService struct {
	settleCalls  int
	lastSettle   paymentdomain.SettleRequest
	settleResult *paymentdomain.SettleResult
	settleErr    error

	webhookProvider string
	webhookPayload  []byte
	webhookErr      error
}

func (f *fakePaymentService) Create(ctx context.Context, req paymentdomain.CreateRequest) (*paymentdomain.PaymentRequest, error) {
	panic("unused")
}

func (f *fakePaymentService) List(ctx context.Context, req paymentdomain.ListRequest) ([]paymentdomain.PaymentRequest, error) {
	_ = ctx
	_ = req
	return nil, nil
}

func (f *fakePaymentService) Settle(ctx context.Context, req paymentdomain.SettleRequest) (*paymentdomain.SettleResult, error) {
	f.settleCalls++
	f.lastSettle = req
	_ = ctx
	if f.settleErr != nil {
		return nil, f.settleErr
	}
	return f.settleResult, nil
}

func (f *fakePaymentService) MarkFailed(ctx context.Context, requestID, actorID snowflake.ID) (*paymentdomain.PaymentRequest, error) {
	_ = ctx
	return &paymentdomain.PaymentRequest{ID: requestID, Status: paymentdomain.StatusFailed}, nil
}

func (f *fakePaymentService) Cancel(ctx context.Context, requestID, profileID snowflake.ID) (*paymentdomain.PaymentRequest, error) {
	_ = ctx
	_ = profileID
	return &paymentdomain.PaymentRequest{ID: requestID, Status: paymentdomain.StatusCancelled}, nil
}

func (f *fakePaymentService) IngestWebhook(ctx context.Context, provider string, payload []byte) error {
	_ = ctx
	f.webhookProvider = provider
	f.webhookPayload = payload
	return f.webhookErr
}

func newTestRouter(srv *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())
	srv.engine = r
	srv.registerAuthRoutes()
	srv.registerAPIRoutes()
	srv.registerAdminRoutes()
	return r
}

func newTestServer(authSvc authdomain.Service, paymentSvc paymentdomain.Service, registrationSvc registrationdomain.Service) *Server {
	return &Server{
		cfg:             config.Config{},
		authsvc:         authSvc,
		paymentSvc:      paymentSvc,
		registrationSvc: registrationSvc,
		loginLimiter:    newRateLimiter(10, time.Minute),
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie})
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegisterHandlerIgnoresRoleField(t *testing.T) {
	regSvc := &fakeRegistrationService{}
	srv := newTestServer(&fakeAuthService{}, &fakePaymentService{}, regSvc)
	router := newTestRouter(srv)

	// a smuggled role key must not change anything about the registration
	body := `{
		"email": "mallory@example.com",
		"password": "s3cretpass",
		"confirm_password": "s3cretpass",
		"declaration": true,
		"first_name": "Mallory",
		"last_name": "Smith",
		"mobile_phone": "0700000002",
		"national_id": "NID-M",
		"tin_number": "TIN-M",
		"role": "administrator"
	}`
	resp := doJSON(t, router, http.MethodPost, "/auth/register", body, "")

	require.Equal(t, http.StatusCreated, resp.Code)
	require.True(t, regSvc.called)
	assert.Equal(t, "mallory@example.com", regSvc.lastReq.Email)

	var payload struct {
		User authdomain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, authdomain.RoleTaxpayer, payload.User.Role)
}

func TestRegisterHandlerRejectsBadDate(t *testing.T) {
	regSvc := &fakeRegistrationService{}
	srv := newTestServer(&fakeAuthService{}, &fakePaymentService{}, regSvc)
	router := newTestRouter(srv)

	body := `{"email":"a@example.com","password":"s3cretpass","confirm_password":"s3cretpass","declaration":true,"date_of_birth":"31-01-1990"}`
	resp := doJSON(t, router, http.MethodPost, "/auth/register", body, "")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.False(t, regSvc.called)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	authSvc := &fakeAuthService{user: &authdomain.User{ID: snowflake.ID(7), Email: "a@example.com", Role: authdomain.RoleTaxpayer}}
	srv := newTestServer(authSvc, &fakePaymentService{}, &fakeRegistrationService{})
	router := newTestRouter(srv)

	resp := doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"s3cretpass"}`, "")

	require.Equal(t, http.StatusOK, resp.Code)
	setCookie := resp.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(setCookie, sessionCookieName+"=session-token"))
	assert.Contains(t, setCookie, "HttpOnly")
}

func TestLoginRateLimited(t *testing.T) {
	authSvc := &fakeAuthService{user: &authdomain.User{ID: snowflake.ID(7)}}
	srv := newTestServer(authSvc, &fakePaymentService{}, &fakeRegistrationService{})
	srv.loginLimiter = newRateLimiter(2, time.Minute)
	router := newTestRouter(srv)

	body := `{"email":"a@example.com","password":"wrongpass1"}`
	for i := 0; i < 2; i++ {
		resp := doJSON(t, router, http.MethodPost, "/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := doJSON(t, router, http.MethodPost, "/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, 2, authSvc.loginCalls)
}

func TestAdminRoutesRequireAdministrator(t *testing.T) {
	authSvc := &fakeAuthService{user: &authdomain.User{ID: snowflake.ID(7), Role: authdomain.RoleTaxpayer}}
	paymentSvc := &fakePaymentService{}
	srv := newTestServer(authSvc, paymentSvc, &fakeRegistrationService{})
	router := newTestRouter(srv)

	// no session at all
	resp := doJSON(t, router, http.MethodPost, "/admin/payments/123/settle", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// taxpayer session
	resp = doJSON(t, router, http.MethodPost, "/admin/payments/123/settle", "", "session-token")
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, 0, paymentSvc.settleCalls)
}

func TestSettlePaymentHandler(t *testing.T) {
	admin := &authdomain.User{ID: snowflake.ID(9), Role: authdomain.RoleAdministrator}
	paymentSvc := &fakePaymentService{
		settleResult: &paymentdomain.SettleResult{
			Request: &paymentdomain.PaymentRequest{ID: snowflake.ID(123), Status: paymentdomain.StatusPaid},
			Ledger:  &ledgerdomain.AccountLedger{PaidAmount: 40, OutstandingBalance: 60},
		},
	}
	srv := newTestServer(&fakeAuthService{user: admin}, paymentSvc, &fakeRegistrationService{})
	router := newTestRouter(srv)

	resp := doJSON(t, router, http.MethodPost, "/admin/payments/123/settle", `{"provider_reference":"prov-9"}`, "session-token")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, paymentSvc.settleCalls)
	assert.Equal(t, snowflake.ID(123), paymentSvc.lastSettle.RequestID)
	assert.Equal(t, "prov-9", paymentSvc.lastSettle.ProviderReference)
	assert.Equal(t, admin.ID, paymentSvc.lastSettle.ActorID)

	var payload struct {
		AlreadySettled bool `json:"already_settled"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.False(t, payload.AlreadySettled)
}

func TestSettlePaymentHandlerErrorMapping(t *testing.T) {
	admin := &authdomain.User{ID: snowflake.ID(9), Role: authdomain.RoleAdministrator}

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"overpayment", ledgerdomain.ErrOverpaymentRejected, http.StatusUnprocessableEntity},
		{"terminal state", paymentdomain.ErrInvalidTransition, http.StatusConflict},
		{"unknown request", paymentdomain.ErrNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			paymentSvc := &fakePaymentService{settleErr: tc.err}
			srv := newTestServer(&fakeAuthService{user: admin}, paymentSvc, &fakeRegistrationService{})
			router := newTestRouter(srv)

			resp := doJSON(t, router, http.MethodPost, "/admin/payments/123/settle", "", "session-token")
			assert.Equal(t, tc.status, resp.Code)
		})
	}
}

func TestWebhookHandler(t *testing.T) {
	paymentSvc := &fakePaymentService{}
	srv := newTestServer(&fakeAuthService{}, paymentSvc, &fakeRegistrationService{})
	router := newTestRouter(srv)

	body := `{"reference":"ABCD1234","status":"paid"}`
	resp := doJSON(t, router, http.MethodPost, "/api/payments/webhooks/pesapal", body, "")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "pesapal", paymentSvc.webhookProvider)
	assert.JSONEq(t, body, string(paymentSvc.webhookPayload))
}

func TestWebhookHandlerBadPayload(t *testing.T) {
	paymentSvc := &fakePaymentService{webhookErr: paymentdomain.ErrInvalidPayload}
	srv := newTestServer(&fakeAuthService{}, paymentSvc, &fakeRegistrationService{})
	router := newTestRouter(srv)

	resp := doJSON(t, router, http.MethodPost, "/api/payments/webhooks/pesapal", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
