package payments

import (
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// The sandbox gateway points buyers at this page instead of Instamojo.
// "Pay" posts the same Credit webhook the real gateway would; "Cancel"
// leaves the order pending, which is exactly what Instamojo does on an
// abandoned payment (no webhook is ever sent for failures).
var checkoutTmpl = template.Must(template.New("checkout").Parse(`<!DOCTYPE html>
<html>
<head><title>Test Payment</title></head>
<body style="font-family:sans-serif;max-width:480px;margin:40px auto">
<h2>Test payment</h2>
<p><b>{{.Purpose}}</b></p>
<p>Buyer: {{.Name}}<br>Amount: ₹{{.Amount}}<br>Request: {{.RequestID}}</p>
<form method="POST" action="/api/webhook">
  <input type="hidden" name="payment_id" value="{{.PaymentID}}">
  <input type="hidden" name="payment_request_id" value="{{.RequestID}}">
  <input type="hidden" name="status" value="Credit">
  <button type="submit">Pay ₹{{.Amount}}</button>
</form>
<p><a href="/payment-success?orderId={{.OrderID}}&cancelled=1">Cancel payment</a></p>
</body>
</html>`))

var successTmpl = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
<head><title>Payment</title></head>
<body style="font-family:sans-serif;max-width:480px;margin:40px auto">
{{if .Cancelled}}<h2>Payment cancelled</h2><p>No money has been taken. You can retry from the registration page.</p>
{{else}}<h2>Thank you!</h2><p>Your payment is being confirmed. Check your order with reference <b>{{.OrderID}}</b>.</p>{{end}}
</body>
</html>`))

// TestCheckout handles GET /test-payment.
func (h *Handler) TestCheckout(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = checkoutTmpl.Execute(c.Writer, gin.H{
		"RequestID": c.Query("payment_request_id"),
		"OrderID":   c.Query("orderId"),
		"Amount":    c.Query("amount"),
		"Purpose":   c.Query("purpose"),
		"Name":      c.Query("name"),
		"PaymentID": "TEST" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12]),
	})
}

// PaymentSuccess handles GET /payment-success, the gateway redirect target.
// Instamojo appends payment_id and payment_request_id to the redirect; when
// they are present and the order is still pending, verify with the gateway
// and complete. Covers webhooks that were lost or have not arrived yet.
func (h *Handler) PaymentSuccess(c *gin.Context) {
	paymentID := c.Query("payment_id")
	requestID := c.Query("payment_request_id")
	if paymentID != "" && requestID != "" {
		if ok, err := h.gateway.VerifyPayment(c.Request.Context(), requestID, paymentID); err != nil {
			log.Printf("Could not verify payment %s on redirect: %v", paymentID, err)
		} else if ok {
			h.complete(requestID, paymentID)
		}
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = successTmpl.Execute(c.Writer, gin.H{
		"OrderID":   c.Query("orderId"),
		"Cancelled": c.Query("cancelled") == "1",
	})
}
