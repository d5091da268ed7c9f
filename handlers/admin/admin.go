package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pradhanmausumi/zudio-franchise/store"
)

// Handler exposes read-through dumps of both stores. There is no auth on
// these routes; the site is a demonstration and holds no real money.
type Handler struct {
	orders    *store.OrderStore
	enquiries *store.EnquiryStore
}

func NewHandler(orders *store.OrderStore, enquiries *store.EnquiryStore) *Handler {
	return &Handler{orders: orders, enquiries: enquiries}
}

// ListPayments handles GET /api/admin/payments.
func (h *Handler) ListPayments(c *gin.Context) {
	orders := h.orders.All()
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(orders), "data": orders})
}

// ListEnquiries handles GET /api/admin/enquiries.
func (h *Handler) ListEnquiries(c *gin.Context) {
	enquiries := h.enquiries.All()
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(enquiries), "data": enquiries})
}
