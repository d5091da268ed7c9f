package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradhanmausumi/zudio-franchise/gateway"
	"github.com/pradhanmausumi/zudio-franchise/models"
	"github.com/pradhanmausumi/zudio-franchise/store"
	"github.com/pradhanmausumi/zudio-franchise/utils"
)

type stubMailer struct {
	mu   sync.Mutex
	sent []string // "to|subject"
}

func (m *stubMailer) Send(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

func (m *stubMailer) count(subjectContains string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sent {
		if strings.Contains(s, subjectContains) {
			n++
		}
	}
	return n
}

type fixture struct {
	router *gin.Engine
	orders *store.OrderStore
	mailer *stubMailer
}

func newFixture(t *testing.T, salt string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orders := store.NewOrderStore()
	mailer := &stubMailer{}
	notifier := utils.NewNotifier(mailer, "admin@zudio-franchise.example")
	h := NewHandler(orders, gateway.NewSandbox("http://localhost:3000"), notifier, salt, true)

	r := gin.New()
	r.POST("/api/create-payment", h.CreatePayment)
	r.POST("/api/webhook", h.Webhook)
	r.GET("/api/payment-status/:orderId", h.PaymentStatus)
	r.GET("/test-payment", h.TestCheckout)
	r.GET("/payment-success", h.PaymentSuccess)

	return &fixture{router: r, orders: orders, mailer: mailer}
}

func (f *fixture) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func createPaymentBody(amount int64) map[string]any {
	return map[string]any{
		"paymentData": map[string]any{"amount": amount, "purpose": "Basic"},
		"customerData": map[string]any{
			"name":  "Test User",
			"email": "test@example.com",
			"phone": "9876543210",
			"city":  "Mumbai",
		},
	}
}

func (f *fixture) createOrder(t *testing.T) (orderID, requestID string) {
	t.Helper()
	w := f.postJSON(t, "/api/create-payment", createPaymentBody(5000))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			OrderID          string `json:"orderId"`
			PaymentRequestID string `json:"paymentRequestId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.Data.OrderID, resp.Data.PaymentRequestID
}

func TestCreatePaymentAndWebhookLifecycle(t *testing.T) {
	f := newFixture(t, "")

	w := f.postJSON(t, "/api/create-payment", createPaymentBody(5000))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			OrderID          string `json:"orderId"`
			PaymentRequestID string `json:"paymentRequestId"`
			Amount           int64  `json:"amount"`
			LongURL          string `json:"longurl"`
			Status           string `json:"status"`
			TestMode         bool   `json:"testMode"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(5000), resp.Data.Amount)
	assert.Equal(t, "pending", resp.Data.Status)
	assert.True(t, resp.Data.TestMode)
	assert.Contains(t, resp.Data.LongURL, "/test-payment?")

	// Status reflects pending before the webhook lands.
	sw := httptest.NewRecorder()
	f.router.ServeHTTP(sw, httptest.NewRequest("GET", "/api/payment-status/"+resp.Data.OrderID, nil))
	require.Equal(t, http.StatusOK, sw.Code)
	assert.Contains(t, sw.Body.String(), `"status":"pending"`)

	// Gateway reports Credit.
	ww := f.postForm(t, "/api/webhook", url.Values{
		"payment_id":         {"P1"},
		"payment_request_id": {resp.Data.PaymentRequestID},
		"status":             {"Credit"},
	})
	require.Equal(t, http.StatusOK, ww.Code)
	assert.Equal(t, "OK", ww.Body.String())

	order, ok := f.orders.Get(resp.Data.OrderID)
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, order.Status)
	assert.Equal(t, "P1", order.PaymentID)
	require.NotNil(t, order.CompletedAt)

	assert.Eventually(t, func() bool {
		return f.mailer.count("Payment received") == 2 // customer + admin
	}, time.Second, 10*time.Millisecond)
}

func TestCreatePaymentValidation(t *testing.T) {
	f := newFixture(t, "")

	// Below the gateway minimum.
	w := f.postJSON(t, "/api/create-payment", createPaymentBody(5))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least")

	// Boundary: 8 fails, 9 passes.
	w = f.postJSON(t, "/api/create-payment", createPaymentBody(8))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = f.postJSON(t, "/api/create-payment", createPaymentBody(9))
	assert.Equal(t, http.StatusCreated, w.Code)

	body := createPaymentBody(5000)
	body["customerData"].(map[string]any)["email"] = "not-an-email"
	w = f.postJSON(t, "/api/create-payment", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = createPaymentBody(5000)
	body["customerData"].(map[string]any)["phone"] = "12345"
	w = f.postJSON(t, "/api/create-payment", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No order persisted by the failed requests, and unknown ids 404.
	sw := httptest.NewRecorder()
	f.router.ServeHTTP(sw, httptest.NewRequest("GET", "/api/payment-status/ord_nothere", nil))
	assert.Equal(t, http.StatusNotFound, sw.Code)
}

func TestWebhookUnknownRequestID(t *testing.T) {
	f := newFixture(t, "")
	orderID, _ := f.createOrder(t)

	w := f.postForm(t, "/api/webhook", url.Values{
		"payment_id":         {"P1"},
		"payment_request_id": {"MOJO-unknown"},
		"status":             {"Credit"},
	})
	// Unknown orders must not trigger provider retries.
	assert.Equal(t, http.StatusOK, w.Code)

	order, _ := f.orders.Get(orderID)
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestWebhookIgnoresNonCreditStatus(t *testing.T) {
	f := newFixture(t, "")
	orderID, requestID := f.createOrder(t)

	w := f.postForm(t, "/api/webhook", url.Values{
		"payment_id":         {"P1"},
		"payment_request_id": {requestID},
		"status":             {"Failed"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	order, _ := f.orders.Get(orderID)
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestWebhookDuplicateIsIdempotent(t *testing.T) {
	f := newFixture(t, "")
	orderID, requestID := f.createOrder(t)

	form := url.Values{
		"payment_id":         {"P1"},
		"payment_request_id": {requestID},
		"status":             {"Credit"},
	}
	require.Equal(t, http.StatusOK, f.postForm(t, "/api/webhook", form).Code)
	first, _ := f.orders.Get(orderID)

	require.Equal(t, http.StatusOK, f.postForm(t, "/api/webhook", form).Code)
	second, _ := f.orders.Get(orderID)

	assert.Equal(t, *first.CompletedAt, *second.CompletedAt)
	assert.Equal(t, "P1", second.PaymentID)

	assert.Eventually(t, func() bool {
		return f.mailer.count("Payment received") == 2
	}, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, f.mailer.count("Payment received"),
		"duplicate webhook must not re-send notifications")
}

func TestWebhookConcurrentDuplicates(t *testing.T) {
	f := newFixture(t, "")
	orderID, requestID := f.createOrder(t)

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.postForm(t, "/api/webhook", url.Values{
				"payment_id":         {"P1"},
				"payment_request_id": {requestID},
				"status":             {"Credit"},
			})
		}()
	}
	wg.Wait()

	order, _ := f.orders.Get(orderID)
	require.Equal(t, models.StatusCompleted, order.Status)
	require.NotNil(t, order.CompletedAt)

	assert.Eventually(t, func() bool {
		return f.mailer.count("Payment received") == 2
	}, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, f.mailer.count("Payment received"),
		"only the winning webhook may dispatch notifications")
}

func TestWebhookMACVerification(t *testing.T) {
	salt := "secret-salt"
	f := newFixture(t, salt)
	orderID, requestID := f.createOrder(t)

	// Wrong MAC: hard reject, no state change.
	w := f.postForm(t, "/api/webhook", url.Values{
		"payment_id":         {"P1"},
		"payment_request_id": {requestID},
		"status":             {"Credit"},
		"mac":                {"0000000000000000000000000000000000000000"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid MAC")
	order, _ := f.orders.Get(orderID)
	assert.Equal(t, models.StatusPending, order.Status)

	// Correct MAC: processed.
	w = f.postForm(t, "/api/webhook", url.Values{
		"payment_id":         {"P1"},
		"payment_request_id": {requestID},
		"status":             {"Credit"},
		"mac":                {utils.ComputeMAC(salt, "P1", requestID, "Credit")},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	order, _ = f.orders.Get(orderID)
	assert.Equal(t, models.StatusCompleted, order.Status)
}

func TestWebhookWithoutMACAcceptedWhenSaltSet(t *testing.T) {
	f := newFixture(t, "secret-salt")
	orderID, requestID := f.createOrder(t)

	// Instamojo's sandbox omits the mac field; process anyway.
	w := f.postForm(t, "/api/webhook", url.Values{
		"payment_id":         {"P1"},
		"payment_request_id": {requestID},
		"status":             {"Credit"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	order, _ := f.orders.Get(orderID)
	assert.Equal(t, models.StatusCompleted, order.Status)
}

func TestWebhookAcceptsJSONBody(t *testing.T) {
	f := newFixture(t, "")
	orderID, requestID := f.createOrder(t)

	w := f.postJSON(t, "/api/webhook", map[string]string{
		"payment_id":         "P9",
		"payment_request_id": requestID,
		"status":             "Credit",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	order, _ := f.orders.Get(orderID)
	assert.Equal(t, models.StatusCompleted, order.Status)
	assert.Equal(t, "P9", order.PaymentID)
}

func TestPaymentSuccessRedirectVerifiesAndCompletes(t *testing.T) {
	f := newFixture(t, "")
	orderID, requestID := f.createOrder(t)

	// The gateway redirect carries the payment ids; the sandbox verifies
	// every payment, so a pending order completes even without a webhook.
	w := httptest.NewRecorder()
	target := fmt.Sprintf("/payment-success?orderId=%s&payment_id=P5&payment_request_id=%s", orderID, requestID)
	f.router.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	require.Equal(t, http.StatusOK, w.Code)

	order, _ := f.orders.Get(orderID)
	assert.Equal(t, models.StatusCompleted, order.Status)
	assert.Equal(t, "P5", order.PaymentID)
}

func TestTestCheckoutPage(t *testing.T) {
	f := newFixture(t, "")
	_, requestID := f.createOrder(t)

	w := httptest.NewRecorder()
	target := fmt.Sprintf("/test-payment?payment_request_id=%s&orderId=ord_1&amount=5000&purpose=Basic&name=Test+User", requestID)
	f.router.ServeHTTP(w, httptest.NewRequest("GET", target, nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, requestID)
	assert.Contains(t, body, "Test User")
	assert.Contains(t, body, `action="/api/webhook"`)
}
