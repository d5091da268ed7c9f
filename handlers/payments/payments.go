package payments

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pradhanmausumi/zudio-franchise/gateway"
	"github.com/pradhanmausumi/zudio-franchise/metrics"
	"github.com/pradhanmausumi/zudio-franchise/models"
	"github.com/pradhanmausumi/zudio-franchise/store"
	"github.com/pradhanmausumi/zudio-franchise/utils"
)

// Handler owns the order lifecycle: it validates create-payment requests,
// drives the gateway client, and applies webhook transitions to the store.
type Handler struct {
	orders   *store.OrderStore
	gateway  gateway.Client
	notifier *utils.Notifier
	salt     string
	testMode bool
}

func NewHandler(orders *store.OrderStore, gw gateway.Client, notifier *utils.Notifier, salt string, testMode bool) *Handler {
	return &Handler{
		orders:   orders,
		gateway:  gw,
		notifier: notifier,
		salt:     salt,
		testMode: testMode,
	}
}

type createPaymentRequest struct {
	PaymentData struct {
		Amount  int64  `json:"amount"`
		Purpose string `json:"purpose"`
	} `json:"paymentData"`
	CustomerData struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		City        string `json:"city"`
		PackageType string `json:"packageType"`
	} `json:"customerData"`
}

// CreatePayment handles POST /api/create-payment.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	if err := utils.ValidateAmount(req.PaymentData.Amount); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if strings.TrimSpace(req.CustomerData.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Name is required"})
		return
	}
	if err := utils.ValidateEmail(req.CustomerData.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	phone, err := utils.NormalizePhone(req.CustomerData.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	orderID := utils.NewOrderID()
	purpose := req.PaymentData.Purpose
	if purpose == "" {
		purpose = "Zudio Franchise Registration"
	}

	pr, err := h.gateway.CreatePaymentRequest(c.Request.Context(), gateway.CreateRequest{
		OrderID:    orderID,
		Amount:     req.PaymentData.Amount,
		Purpose:    purpose,
		BuyerName:  req.CustomerData.Name,
		BuyerEmail: req.CustomerData.Email,
		BuyerPhone: phone,
	})
	if err != nil {
		log.Printf("Gateway create failed for %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	order := models.Order{
		OrderID:          orderID,
		GatewayRequestID: pr.ID,
		Customer: models.Customer{
			Name:        req.CustomerData.Name,
			Email:       req.CustomerData.Email,
			Phone:       phone,
			City:        req.CustomerData.City,
			PackageType: req.CustomerData.PackageType,
		},
		Amount:    req.PaymentData.Amount,
		Purpose:   purpose,
		Status:    models.StatusPending,
		LongURL:   pr.LongURL,
		ShortURL:  pr.ShortURL,
		TestMode:  h.testMode,
		CreatedAt: time.Now(),
	}
	h.orders.Put(order)
	metrics.PaymentsCreated.Inc()
	log.Printf("Payment request %s created for order %s (₹%d)", pr.ID, orderID, order.Amount)

	h.notifier.Notify(order.Customer.Email, "Your Zudio franchise payment is pending",
		initiatedCustomerEmail(order))
	h.notifier.NotifyAdmin("New franchise payment initiated", initiatedAdminEmail(order))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"orderId":          order.OrderID,
			"paymentRequestId": order.GatewayRequestID,
			"amount":           order.Amount,
			"longurl":          order.LongURL,
			"shorturl":         order.ShortURL,
			"status":           order.Status,
			"testMode":         order.TestMode,
		},
	})
}

type webhookPayload struct {
	PaymentID        string `form:"payment_id" json:"payment_id"`
	PaymentRequestID string `form:"payment_request_id" json:"payment_request_id"`
	Status           string `form:"status" json:"status"`
	MAC              string `form:"mac" json:"mac"`
}

// Webhook handles POST /api/webhook. Instamojo and the test checkout page
// post form-encoded bodies; JSON is accepted too. Responds 200 for
// everything except a bad MAC so the provider never retry-storms an order
// we will never match.
func (h *Handler) Webhook(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBind(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid webhook payload"})
		return
	}

	if h.salt != "" && payload.MAC != "" {
		if !utils.VerifyMAC(h.salt, payload.MAC, payload.PaymentID, payload.PaymentRequestID, payload.Status) {
			log.Printf("Webhook MAC mismatch for payment request %s", payload.PaymentRequestID)
			metrics.WebhooksReceived.WithLabelValues("invalid_mac").Inc()
			c.String(http.StatusBadRequest, "Invalid MAC")
			return
		}
	}

	if payload.Status != "Credit" {
		log.Printf("Ignoring webhook with status %q for payment request %s", payload.Status, payload.PaymentRequestID)
		metrics.WebhooksReceived.WithLabelValues("ignored").Inc()
		c.String(http.StatusOK, "OK")
		return
	}

	result := h.complete(payload.PaymentRequestID, payload.PaymentID)
	metrics.WebhooksReceived.WithLabelValues(result).Inc()

	c.String(http.StatusOK, "OK")
}

// complete applies the pending -> completed transition for the order the
// gateway request id correlates to. Safe to call any number of times; only
// the call that wins the transition fires notifications.
func (h *Handler) complete(requestID, paymentID string) string {
	order, found, transitioned := h.orders.Complete(requestID, paymentID, time.Now())
	switch {
	case !found:
		// Provider retries and multi-instance deployments make an unknown
		// request id routine, not an error.
		log.Printf("Payment confirmation for unknown request %s, ignoring", requestID)
		return "unmatched"
	case !transitioned:
		log.Printf("Order %s already completed, ignoring duplicate confirmation", order.OrderID)
		return "duplicate"
	}

	log.Printf("Order %s completed, payment %s", order.OrderID, paymentID)
	metrics.PaymentsCompleted.Inc()
	h.notifier.Notify(order.Customer.Email, "Payment received - Zudio franchise registration",
		completedCustomerEmail(order))
	h.notifier.NotifyAdmin("Franchise payment received", completedAdminEmail(order))
	return "completed"
}

// PaymentStatus handles GET /api/payment-status/:orderId.
func (h *Handler) PaymentStatus(c *gin.Context) {
	order, ok := h.orders.Get(c.Param("orderId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"orderId":     order.OrderID,
			"status":      order.Status,
			"amount":      order.Amount,
			"createdAt":   order.CreatedAt,
			"completedAt": order.CompletedAt,
			"paymentId":   order.PaymentID,
		},
	})
}
