package enquiries

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pradhanmausumi/zudio-franchise/models"
	"github.com/pradhanmausumi/zudio-franchise/store"
	"github.com/pradhanmausumi/zudio-franchise/utils"
)

type Handler struct {
	enquiries *store.EnquiryStore
	notifier  *utils.Notifier
}

func NewHandler(enquiries *store.EnquiryStore, notifier *utils.Notifier) *Handler {
	return &Handler{enquiries: enquiries, notifier: notifier}
}

type sendNotificationRequest struct {
	Type string `json:"type"`
	Data struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		City       string `json:"city"`
		Investment string `json:"investment"`
		Message    string `json:"message"`
	} `json:"data"`
}

// SendNotification handles POST /api/send-notification. Only enquiry
// notifications exist today.
func (h *Handler) SendNotification(c *gin.Context) {
	var req sendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}
	if req.Type != "enquiry" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("Unknown notification type %q", req.Type)})
		return
	}
	if strings.TrimSpace(req.Data.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Name is required"})
		return
	}
	if err := utils.ValidateEmail(req.Data.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	enquiry := models.Enquiry{
		EnquiryID:  utils.NewEnquiryID(),
		Name:       req.Data.Name,
		Email:      req.Data.Email,
		Phone:      req.Data.Phone,
		City:       req.Data.City,
		Investment: req.Data.Investment,
		Message:    req.Data.Message,
		ReceivedAt: time.Now(),
	}
	h.enquiries.Put(enquiry)
	log.Printf("Enquiry %s received from %s (%s)", enquiry.EnquiryID, enquiry.Name, enquiry.City)

	h.notifier.NotifyAdmin("New franchise enquiry", adminEnquiryEmail(enquiry))
	h.notifier.Notify(enquiry.Email, "We received your Zudio franchise enquiry",
		customerEnquiryEmail(enquiry))

	c.JSON(http.StatusCreated, gin.H{"success": true, "enquiryId": enquiry.EnquiryID})
}

func adminEnquiryEmail(e models.Enquiry) string {
	return fmt.Sprintf(`<h3>New franchise enquiry</h3>
<ul>
<li>Name: %s</li>
<li>Email: %s</li>
<li>Phone: %s</li>
<li>City: %s</li>
<li>Investment range: %s</li>
</ul>
<p>%s</p>`,
		e.Name, e.Email, e.Phone, e.City, e.Investment, e.Message)
}

func customerEnquiryEmail(e models.Enquiry) string {
	return fmt.Sprintf(`<h2>Hi %s,</h2>
<p>Thanks for your interest in a Zudio franchise. Our team will reach out to
you within 2 working days.</p>
<p>Your enquiry reference is <b>%s</b>.</p>`,
		e.Name, e.EnquiryID)
}
