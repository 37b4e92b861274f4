package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/happyshop-api/internal/application/auth"
	"github.com/jhoicas/happyshop-api/internal/application/checkout"
	"github.com/jhoicas/happyshop-api/internal/application/dto"
	"github.com/jhoicas/happyshop-api/internal/domain"
	"github.com/jhoicas/happyshop-api/internal/domain/entity"
	"github.com/jhoicas/happyshop-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/happyshop-api/internal/interfaces/http"
	"github.com/jhoicas/happyshop-api/pkg/logger"
	"github.com/jhoicas/happyshop-api/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memAccounts struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*entity.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byName: map[string]*entity.Account{}}
}

func (r *memAccounts) Create(_ context.Context, a *entity.Account) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[a.Username]; ok {
		return 0, domain.ErrUsernameTaken
	}
	r.nextID++
	a.ID = r.nextID
	r.byName[a.Username] = a.Clone()
	return a.ID, nil
}

func (r *memAccounts) FindByUsername(_ context.Context, username string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byName[username]; ok {
		return a.Clone(), nil
	}
	return nil, nil
}

func (r *memAccounts) UsernameExists(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byName[username]
	return ok, nil
}

func (r *memAccounts) AddLoyaltyPoints(_ context.Context, accountID int64, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byName {
		if a.ID == accountID {
			return a.AwardLoyaltyPoints(points)
		}
	}
	return domain.ErrNotFound
}

func (r *memAccounts) DeleteByUsername(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byName, username)
	return nil
}

type memTransactions struct {
	mu   sync.Mutex
	recs []*entity.TransactionRecord
}

func (r *memTransactions) Record(_ context.Context, orderID int64, p *entity.Payment) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := &entity.TransactionRecord{
		ID:            int64(len(r.recs) + 1),
		OrderID:       orderID,
		PaymentMethod: p.Method(),
		Amount:        p.Amount(),
		Status:        p.Status(),
		CreatedAt:     time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
	}
	if last, ok := p.LastFour(); ok {
		rec.CardLastFour = &last
	}
	r.recs = append(r.recs, rec)
	return rec.ID, nil
}

func (r *memTransactions) History(_ context.Context, orderID int64) iter.Seq2[*entity.TransactionRecord, error] {
	return func(yield func(*entity.TransactionRecord, error) bool) {
		r.mu.Lock()
		recs := append([]*entity.TransactionRecord(nil), r.recs...)
		r.mu.Unlock()
		for i := len(recs) - 1; i >= 0; i-- {
			if recs[i].OrderID != orderID {
				continue
			}
			if !yield(recs[i], nil) {
				return
			}
		}
	}
}

func (r *memTransactions) GetByID(_ context.Context, id int64) (*entity.TransactionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id < 1 || int(id) > len(r.recs) {
		return nil, nil
	}
	return r.recs[id-1], nil
}

type fakeReceipts struct{}

func (fakeReceipts) GenerateReceipt(_ context.Context, rec *entity.TransactionRecord) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación de prueba
// ──────────────────────────────────────────────────────────────────────────────

var testHasher = password.NewHasher(bcrypt.MinCost)

type testEnv struct {
	app      *fiber.App
	accounts *memAccounts
	txs      *memTransactions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	accounts := newMemAccounts()
	txs := &memTransactions{}
	m := metrics.New()
	log := logger.Nop()

	sessions := auth.NewSessionManager(accounts, testHasher, log, auth.WithLoginObserver(m))
	authUC := auth.NewAuthUseCase(sessions, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	orch := checkout.NewOrchestrator(txs, accounts, sessions, nil, log, checkout.WithObserver(m))
	paymentUC := checkout.NewPaymentUseCase(orch, txs, fakeReceipts{})

	manager, err := entity.NewStaff(testHasher, "boss", "boss-pass", "boss@shop.com", entity.StaffRoleManager)
	require.NoError(t, err)
	_, err = accounts.Create(context.Background(), manager)
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         authUC,
		PaymentUC:      paymentUC,
		Sessions:       sessions,
		MetricsHandler: m.Handler(),
		JWTSecret:      testJWTSecret,
		ServiceName:    "happyshop-test",
	})
	return &testEnv{app: app, accounts: accounts, txs: txs}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) login(t *testing.T, username, plain string) dto.LoginResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: plain})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) registerCustomer(t *testing.T, username, plain string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: username, Password: plain, Email: username + "@mail.com"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func validCardPayment(orderID int64, amount string) dto.PaymentRequest {
	return dto.PaymentRequest{
		OrderID: orderID, Amount: amount, Method: "card",
		CardNumber: "4111 1111 1111 1111", HolderName: "Alice", Expiry: "12/30", CVV: "123",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreaCliente(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: "alice", Password: "secret-1"})
	out := decode[dto.AccountResponse](t, resp)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "alice", out.Username)
	assert.Equal(t, "customer", out.Role)
	require.NotNil(t, out.LoyaltyPoints)
	assert.Equal(t, 0, *out.LoyaltyPoints)
}

func TestRegister_UsuarioDuplicado_Retorna409(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")

	resp := env.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: "alice", Password: "otra"})
	out := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "USERNAME_EXISTS", out.Code)
}

func TestRegister_SinPassword_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: "alice"})
	out := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out.Code)
}

func TestLogin_CredencialesInvalidas_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")

	for _, in := range []dto.LoginRequest{
		{Username: "alice", Password: "mala"},
		{Username: "nadie", Password: "secret-1"},
	} {
		resp := env.do(t, http.MethodPost, "/api/auth/login", "", in)
		out := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", out.Code, "usuario inexistente y password incorrecto deben ser indistinguibles")
	}
}

func TestLogin_MeDevuelveCuentaActiva(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")
	sess := env.login(t, "alice", "secret-1")
	assert.NotEmpty(t, sess.Token)
	assert.NotEmpty(t, sess.SessionID)

	resp := env.do(t, http.MethodGet, "/api/auth/me", sess.Token, nil)
	out := decode[dto.AccountResponse](t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", out.Username)
}

func TestLogin_NuevoLoginInvalidaTokenAnterior(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")
	first := env.login(t, "alice", "secret-1")
	env.login(t, "boss", "boss-pass")

	resp := env.do(t, http.MethodGet, "/api/auth/me", first.Token, nil)
	out := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "SESSION_ENDED", out.Code)
}

func TestLogout_CierraSesion(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")
	sess := env.login(t, "alice", "secret-1")

	resp := env.do(t, http.MethodPost, "/api/auth/logout", sess.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/auth/me", sess.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterStaff_SoloManager(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")
	customer := env.login(t, "alice", "secret-1")

	in := dto.RegisterStaffRequest{Username: "pat", Password: "picker-1", Role: "picker"}
	resp := env.do(t, http.MethodPost, "/api/staff", customer.Token, in)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	manager := env.login(t, "boss", "boss-pass")
	resp = env.do(t, http.MethodPost, "/api/staff", manager.Token, in)
	out := decode[dto.AccountResponse](t, resp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "picker", out.Role)
	assert.Nil(t, out.LoyaltyPoints)
}

func TestRegisterStaff_RolInvalido_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	manager := env.login(t, "boss", "boss-pass")

	resp := env.do(t, http.MethodPost, "/api/staff", manager.Token,
		dto.RegisterStaffRequest{Username: "pat", Password: "x", Role: "cashier"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

func TestPay_TarjetaValida_RegistraYAbonaPuntos(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")
	sess := env.login(t, "alice", "secret-1")

	resp := env.do(t, http.MethodPost, "/api/checkout/payments", sess.Token, validCardPayment(7, "49.99"))
	out := decode[dto.PaymentResponse](t, resp)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, out.Success)
	assert.Equal(t, "Completed", out.Status)
	assert.Equal(t, "49.99", out.Amount)
	assert.Contains(t, out.Details, "1111")
	assert.NotContains(t, out.Details, "4111 1111 1111 1111")
	require.NotNil(t, out.TransactionID)
	assert.Equal(t, int64(1), *out.TransactionID)
	assert.Equal(t, 49, out.LoyaltyPoints)

	me := decode[dto.AccountResponse](t, env.do(t, http.MethodGet, "/api/auth/me", sess.Token, nil))
	require.NotNil(t, me.LoyaltyPoints)
	assert.Equal(t, 49, *me.LoyaltyPoints)
}

func TestPay_TarjetaInvalida_Retorna402SinRegistro(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")
	sess := env.login(t, "alice", "secret-1")

	in := validCardPayment(7, "10.00")
	in.CardNumber = "4111 1111 1111 1112"
	resp := env.do(t, http.MethodPost, "/api/checkout/payments", sess.Token, in)
	out := decode[dto.PaymentResponse](t, resp)

	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.False(t, out.Success)
	assert.Equal(t, "Failed", out.Status)
	assert.Nil(t, out.TransactionID)
	assert.Empty(t, env.txs.recs)
}

func TestPay_MontoNoNumerico_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")
	sess := env.login(t, "alice", "secret-1")

	resp := env.do(t, http.MethodPost, "/api/checkout/payments", sess.Token, validCardPayment(7, "diez"))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPay_SinToken_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/checkout/payments", "", validCardPayment(7, "1.00"))
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial y comprobante
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_StaffVeRegistrosMasRecientePrimero(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")
	customer := env.login(t, "alice", "secret-1")
	env.do(t, http.MethodPost, "/api/checkout/payments", customer.Token, validCardPayment(7, "10.00")).Body.Close()
	env.do(t, http.MethodPost, "/api/checkout/payments", customer.Token,
		dto.PaymentRequest{OrderID: 7, Amount: "5.50", Method: "paypal", PayPalEmail: "alice@mail.com"}).Body.Close()

	resp := env.do(t, http.MethodGet, "/api/orders/7/transactions", customer.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "un cliente no ve la auditoría")

	manager := env.login(t, "boss", "boss-pass")
	resp = env.do(t, http.MethodGet, "/api/orders/7/transactions", manager.Token, nil)
	out := decode[dto.TransactionHistoryResponse](t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out.Transactions, 2)
	assert.Equal(t, "PayPal", out.Transactions[0].Method)
	assert.Nil(t, out.Transactions[0].CardLastFour)
	require.NotNil(t, out.Transactions[1].CardLastFour)
	assert.Equal(t, "1111", *out.Transactions[1].CardLastFour)
}

func TestHistory_FormatoTexto(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")
	customer := env.login(t, "alice", "secret-1")
	env.do(t, http.MethodPost, "/api/checkout/payments", customer.Token, validCardPayment(3, "12.50")).Body.Close()

	manager := env.login(t, "boss", "boss-pass")
	resp := env.do(t, http.MethodGet, "/api/orders/3/transactions?format=text", manager.Token, nil)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
	assert.Contains(t, string(body), "Transaction 1:")
	assert.Contains(t, string(body), "(Completed)")
}

func TestHistory_OrdenInvalida_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	manager := env.login(t, "boss", "boss-pass")

	resp := env.do(t, http.MethodGet, "/api/orders/abc/transactions", manager.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReceipt_DevuelvePDF(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")
	sess := env.login(t, "alice", "secret-1")
	env.do(t, http.MethodPost, "/api/checkout/payments", sess.Token, validCardPayment(7, "10.00")).Body.Close()

	resp := env.do(t, http.MethodGet, "/api/transactions/1/receipt", sess.Token, nil)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "receipt-1.pdf")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestReceipt_Inexistente_Retorna404(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")
	sess := env.login(t, "alice", "secret-1")

	resp := env.do(t, http.MethodGet, "/api/transactions/99/receipt", sess.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Health y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthYMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.registerCustomer(t, "alice", "secret-1")
	env.login(t, "alice", "secret-1")

	resp := env.do(t, http.MethodGet, "/health", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "happyshop_logins_total")
}
