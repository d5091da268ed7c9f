package enquiries

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradhanmausumi/zudio-franchise/store"
	"github.com/pradhanmausumi/zudio-franchise/utils"
)

type stubMailer struct {
	mu   sync.Mutex
	sent int
}

func (m *stubMailer) Send(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	return nil
}

func (m *stubMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

func setup() (*gin.Engine, *store.EnquiryStore, *stubMailer) {
	gin.SetMode(gin.TestMode)
	enquiryStore := store.NewEnquiryStore()
	mailer := &stubMailer{}
	h := NewHandler(enquiryStore, utils.NewNotifier(mailer, "admin@zudio-franchise.example"))

	r := gin.New()
	r.POST("/api/send-notification", h.SendNotification)
	return r, enquiryStore, mailer
}

func post(r *gin.Engine, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/api/send-notification", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendNotificationStoresEnquiry(t *testing.T) {
	r, enquiryStore, mailer := setup()

	w := post(r, map[string]any{
		"type": "enquiry",
		"data": map[string]string{
			"name":       "Test User",
			"email":      "test@example.com",
			"phone":      "9876543210",
			"city":       "Mumbai",
			"investment": "10-15 lakh",
			"message":    "Interested in a mall location",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success   bool   `json:"success"`
		EnquiryID string `json:"enquiryId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.EnquiryID)

	enquiry, ok := enquiryStore.Get(resp.EnquiryID)
	require.True(t, ok)
	assert.Equal(t, "Mumbai", enquiry.City)
	assert.False(t, enquiry.ReceivedAt.IsZero())

	// Admin + customer emails, dispatched asynchronously.
	assert.Eventually(t, func() bool { return mailer.count() == 2 },
		time.Second, 10*time.Millisecond)
}

func TestSendNotificationRejectsBadInput(t *testing.T) {
	r, enquiryStore, _ := setup()

	w := post(r, map[string]any{"type": "broadcast", "data": map[string]string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, map[string]any{
		"type": "enquiry",
		"data": map[string]string{"name": "X", "email": "not-an-email"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, map[string]any{
		"type": "enquiry",
		"data": map[string]string{"name": "", "email": "test@example.com"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, enquiryStore.All())
}
