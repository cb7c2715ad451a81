package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bob1127/eSIM-pwa-sub000/internal/server/http/dto"
)

// CheckoutHandler produces the payment-gateway redirect document.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// PaymentForm handles POST /api/checkout/form. The response body is an HTML
// document the browser writes into a window; it self-submits to the gateway.
func (h *CheckoutHandler) PaymentForm(c *gin.Context) {
	var req dto.CheckoutFormRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		respond(c, http.StatusBadRequest, "orderId is required")
		return
	}

	doc, err := h.facade.PaymentForm(c.Request.Context(), req.OrderID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
}
