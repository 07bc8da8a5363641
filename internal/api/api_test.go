package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/Fi44er/usdt_topup/internal/models"
	"github.com/Fi44er/usdt_topup/internal/repository/memory"
	"github.com/Fi44er/usdt_topup/internal/service"
	"github.com/Fi44er/usdt_topup/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type staticRate struct{}

func (staticRate) USDTRUB(context.Context) (decimal.Decimal, error) {
	return decimal.NewFromInt(100), nil
}

const testBotToken = "123456:TEST-TOKEN"

type APITestSuite struct {
	suite.Suite
	router http.Handler
	svc    *service.Service
}

func (s *APITestSuite) SetupTest() {
	logger := utils.InitLogger()
	s.svc = service.NewService(memory.NewStorage(), staticRate{}, service.Options{
		DepositAddress: "TDeposit",
		FallbackRate:   decimal.NewFromInt(95),
		UrgentFee:      decimal.RequireFromString("0.02"),
	}, logger)
	s.Require().NoError(s.svc.EnsureBootstrapOperator(context.Background(), "admin", "admin-password"))
	s.router = NewServer(s.svc, testBotToken, logger).Router()
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

// caller sets the credentials of a test request.
type caller func(*http.Request)

func anonymous(*http.Request) {}

func asOperator(r *http.Request) {
	r.SetBasicAuth("admin", "admin-password")
}

func initData(telegramID int64, botToken string, signedAt time.Time) string {
	values := url.Values{}
	values.Set("auth_date", strconv.FormatInt(signedAt.Unix(), 10))
	values.Set("user", fmt.Sprintf(`{"id":%d,"username":"tg%d"}`, telegramID, telegramID))
	values.Set("hash", utils.InitDataHash(values, botToken))
	return values.Encode()
}

func asTelegram(telegramID int64) caller {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "tma "+initData(telegramID, testBotToken, time.Now()))
	}
}

func (s *APITestSuite) do(method, path string, body any, as caller) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	as(req)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decodeInto[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (s *APITestSuite) register(telegramID int64) (models.User, caller) {
	as := asTelegram(telegramID)
	rr := s.do(http.MethodPost, "/api/users", nil, as)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	return decodeInto[models.User](s.T(), rr), as
}

func (s *APITestSuite) fund(userID, amount string) {
	ctx := context.Background()
	d, err := s.svc.CreateDeposit(ctx, userID, decimal.RequireFromString(amount), "")
	s.Require().NoError(err)
	ops, err := s.svc.ListOperators(ctx)
	s.Require().NoError(err)
	_, err = s.svc.ConfirmDeposit(ctx, ops[0].ID, d.ID)
	s.Require().NoError(err)
}

func (s *APITestSuite) TestTopUpAndPayFlow() {
	user, as := s.register(101)
	s.Equal("101", user.TelegramID)
	s.Equal("tg101", user.Username)

	rr := s.do(http.MethodPost, "/api/users/"+user.ID+"/deposits", map[string]any{"amount": "50"}, as)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	deposit := decodeInto[models.Deposit](s.T(), rr)
	s.Equal(models.DepositPending, deposit.Status)

	rr = s.do(http.MethodGet, "/api/admin/deposits/pending", nil, asOperator)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Len(decodeInto[[]models.Deposit](s.T(), rr), 1)

	rr = s.do(http.MethodPost, "/api/admin/deposits/"+deposit.ID+"/confirm", nil, asOperator)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	s.Equal(models.DepositConfirmed, decodeInto[models.Deposit](s.T(), rr).Status)

	rr = s.do(http.MethodPost, "/api/admin/deposits/"+deposit.ID+"/confirm", nil, asOperator)
	s.Equal(http.StatusConflict, rr.Code)

	rr = s.do(http.MethodPost, "/api/users/"+user.ID+"/payment-requests", map[string]any{
		"amount_rub": "1500",
		"urgency":    "standard",
	}, as)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	req := decodeInto[models.PaymentRequest](s.T(), rr)
	s.True(decimal.NewFromInt(15).Equal(req.AmountUsdt))

	rr = s.do(http.MethodGet, "/api/users/"+user.ID+"/dashboard", nil, as)
	s.Require().Equal(http.StatusOK, rr.Code)
	dash := decodeInto[service.Dashboard](s.T(), rr)
	s.True(decimal.NewFromInt(35).Equal(dash.User.AvailableBalance))
	s.True(decimal.NewFromInt(15).Equal(dash.User.FrozenBalance))
	s.Equal("TDeposit", dash.DepositAddress)

	rr = s.do(http.MethodPost, "/api/admin/payment-requests/"+req.ID+"/review", map[string]any{"status": "processing"}, asOperator)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	rr = s.do(http.MethodPost, "/api/admin/payment-requests/"+req.ID+"/review", map[string]any{
		"status":        "paid",
		"admin_comment": "done",
		"receipt":       map[string]string{"type": "image", "value": "iVBOR"},
	}, asOperator)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	s.Equal(models.PaymentPaid, decodeInto[models.PaymentRequest](s.T(), rr).Status)

	rr = s.do(http.MethodGet, "/api/users/"+user.ID+"/history?filter=finished", nil, as)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Len(decodeInto[[]service.HistoryEntry](s.T(), rr), 2)

	rr = s.do(http.MethodGet, "/api/admin/payment-requests?status=paid", nil, asOperator)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Len(decodeInto[[]models.PaymentRequest](s.T(), rr), 1)
}

func (s *APITestSuite) TestCancelAndNotifications() {
	user, as := s.register(202)
	s.fund(user.ID, "20")

	rr := s.do(http.MethodPost, "/api/users/"+user.ID+"/payment-requests", map[string]any{"amount_rub": 500}, as)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	req := decodeInto[models.PaymentRequest](s.T(), rr)

	rr = s.do(http.MethodPost, "/api/users/"+user.ID+"/payment-requests/"+req.ID+"/cancel", nil, as)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	s.Equal(models.PaymentCancelled, decodeInto[models.PaymentRequest](s.T(), rr).Status)

	rr = s.do(http.MethodGet, "/api/users/"+user.ID+"/notifications", nil, as)
	s.Require().Equal(http.StatusOK, rr.Code)
	list := decodeInto[notificationsResponse](s.T(), rr)
	s.Require().NotEmpty(list.Notifications)
	s.EqualValues(len(list.Notifications), list.Unread)

	rr = s.do(http.MethodPost, "/api/users/"+user.ID+"/notifications/"+list.Notifications[0].ID+"/read", nil, as)
	s.Equal(http.StatusNoContent, rr.Code)

	rr = s.do(http.MethodGet, "/api/users/"+user.ID+"/notifications", nil, as)
	s.EqualValues(len(list.Notifications)-1, decodeInto[notificationsResponse](s.T(), rr).Unread)
}

func (s *APITestSuite) TestErrorMapping() {
	user, as := s.register(303)

	rr := s.do(http.MethodPost, "/api/users/"+user.ID+"/payment-requests/missing/cancel", nil, as)
	s.Equal(http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodPost, "/api/users/"+user.ID+"/payment-requests", map[string]any{"amount_rub": "100"}, as)
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Contains(decodeInto[errorResponse](s.T(), rr).Error, "insufficient")

	rr = s.do(http.MethodPost, "/api/users/"+user.ID+"/deposits", map[string]any{"amount": "1", "extra": true}, as)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodGet, "/api/users/"+user.ID+"/history?filter=weird", nil, as)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodGet, "/api/deposit-address", nil, anonymous)
	s.Equal(http.StatusOK, rr.Code)
	s.Equal("TDeposit", decodeInto[map[string]string](s.T(), rr)["address"])
}

func (s *APITestSuite) TestAdminRequiresCredentials() {
	rr := s.do(http.MethodGet, "/api/admin/users", nil, anonymous)
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.NotEmpty(rr.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.SetBasicAuth("admin", "wrong")
	wrong := httptest.NewRecorder()
	s.router.ServeHTTP(wrong, req)
	s.Equal(http.StatusUnauthorized, wrong.Code)

	rr = s.do(http.MethodGet, "/api/admin/users", nil, asOperator)
	s.Equal(http.StatusOK, rr.Code)
}

func (s *APITestSuite) TestOperatorManagement() {
	rr := s.do(http.MethodPost, "/api/admin/operators", map[string]string{"login": "second", "password": "second-password"}, asOperator)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	op := decodeInto[models.Operator](s.T(), rr)
	s.Equal(1, op.IsActive)
	s.NotContains(rr.Body.String(), "salt")

	rr = s.do(http.MethodPost, "/api/admin/operators", map[string]string{"login": "second", "password": "second-password"}, asOperator)
	s.Equal(http.StatusConflict, rr.Code)

	rr = s.do(http.MethodPost, "/api/admin/operators", map[string]string{"login": "third", "password": "short"}, asOperator)
	s.Equal(http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodPatch, "/api/admin/operators/"+op.ID, map[string]bool{"is_active": false}, asOperator)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Equal(0, decodeInto[models.Operator](s.T(), rr).IsActive)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.SetBasicAuth("second", "second-password")
	inactive := httptest.NewRecorder()
	s.router.ServeHTTP(inactive, req)
	s.Equal(http.StatusForbidden, inactive.Code)

	rr = s.do(http.MethodGet, "/api/admin/operators", nil, asOperator)
	s.Len(decodeInto[[]models.Operator](s.T(), rr), 2)

	rr = s.do(http.MethodDelete, "/api/admin/operators/"+op.ID, nil, asOperator)
	s.Equal(http.StatusNoContent, rr.Code)
	rr = s.do(http.MethodDelete, "/api/admin/operators/"+op.ID, nil, asOperator)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *APITestSuite) TestUserRoutesRequireInitData() {
	victim, _ := s.register(404)
	s.fund(victim.ID, "50")

	rr := s.do(http.MethodPost, "/api/users/"+victim.ID+"/payment-requests", map[string]any{"amount_rub": "4000"}, anonymous)
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.Equal("tma", rr.Header().Get("WWW-Authenticate"))

	rr = s.do(http.MethodGet, "/api/users/"+victim.ID+"/dashboard", nil, anonymous)
	s.Equal(http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodPost, "/api/users", nil, anonymous)
	s.Equal(http.StatusUnauthorized, rr.Code)

	forged := func(r *http.Request) {
		r.Header.Set("Authorization", "tma "+initData(404, "999:OTHER", time.Now()))
	}
	rr = s.do(http.MethodGet, "/api/users/"+victim.ID+"/dashboard", nil, forged)
	s.Equal(http.StatusUnauthorized, rr.Code)

	stale := func(r *http.Request) {
		r.Header.Set("Authorization", "tma "+initData(404, testBotToken, time.Now().Add(-48*time.Hour)))
	}
	rr = s.do(http.MethodGet, "/api/users/"+victim.ID+"/dashboard", nil, stale)
	s.Equal(http.StatusUnauthorized, rr.Code)

	u, err := s.svc.GetUser(context.Background(), victim.ID)
	s.Require().NoError(err)
	s.Equal("50", u.AvailableBalance.String())
	s.Equal("0", u.FrozenBalance.String())
}

func (s *APITestSuite) TestUserCannotActForSomeoneElse() {
	victim, victimAs := s.register(505)
	s.fund(victim.ID, "50")
	_, attacker := s.register(606)

	rr := s.do(http.MethodPost, "/api/users/"+victim.ID+"/payment-requests", map[string]any{"amount_rub": "4000"}, attacker)
	s.Equal(http.StatusForbidden, rr.Code)

	rr = s.do(http.MethodGet, "/api/users/"+victim.ID+"/dashboard", nil, attacker)
	s.Equal(http.StatusForbidden, rr.Code)

	rr = s.do(http.MethodGet, "/api/users/"+victim.ID+"/notifications", nil, attacker)
	s.Equal(http.StatusForbidden, rr.Code)

	rr = s.do(http.MethodPost, "/api/users/"+victim.ID+"/payment-requests", map[string]any{"amount_rub": "1000"}, victimAs)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	req := decodeInto[models.PaymentRequest](s.T(), rr)

	rr = s.do(http.MethodPost, "/api/users/"+victim.ID+"/payment-requests/"+req.ID+"/cancel", nil, attacker)
	s.Equal(http.StatusForbidden, rr.Code)

	notes, err := s.svc.ListNotifications(context.Background(), victim.ID)
	s.Require().NoError(err)
	s.Require().NotEmpty(notes)

	// the attacker's own id in the path does not unlock the victim's notification
	attackerUser, err := s.svc.GetUserByTelegramID(context.Background(), "606")
	s.Require().NoError(err)
	rr = s.do(http.MethodPost, "/api/users/"+attackerUser.ID+"/notifications/"+notes[0].ID+"/read", nil, attacker)
	s.Equal(http.StatusNotFound, rr.Code)

	unread, err := s.svc.UnreadCount(context.Background(), victim.ID)
	s.Require().NoError(err)
	s.EqualValues(len(notes), unread)

	u, err := s.svc.GetUser(context.Background(), victim.ID)
	s.Require().NoError(err)
	s.Equal("40", u.AvailableBalance.String())
	s.Equal("10", u.FrozenBalance.String())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(service.ErrUserNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(service.ErrAlreadyExists))
	assert.Equal(t, http.StatusUnauthorized, statusFor(service.ErrInvalidCredentials))
	assert.Equal(t, http.StatusForbidden, statusFor(service.ErrForbidden))
	assert.Equal(t, http.StatusNotFound, statusFor(service.ErrNotificationNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
