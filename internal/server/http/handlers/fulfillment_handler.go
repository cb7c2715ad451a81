package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bob1127/eSIM-pwa-sub000/internal/server/http/dto"
)

// FulfillmentHandler triggers provisioning and notification delivery.
type FulfillmentHandler struct {
	facade FulfillmentFacade
}

// NewFulfillmentHandler constructs FulfillmentHandler.
func NewFulfillmentHandler(facade FulfillmentFacade) *FulfillmentHandler {
	return &FulfillmentHandler{facade: facade}
}

// Fulfill handles POST /api/fulfill.
func (h *FulfillmentHandler) Fulfill(c *gin.Context) {
	var req dto.FulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		respond(c, http.StatusBadRequest, "orderId is required")
		return
	}

	records, err := h.facade.FulfillOrder(c.Request.Context(), req.OrderID)
	if err != nil {
		writeError(c, err)
		return
	}

	codes := make([]dto.QRCode, 0, len(records))
	for _, rec := range records {
		codes = append(codes, dto.QRCode{ProductName: rec.ProductName, QRCodeURL: rec.QRCodeURL, TopupID: rec.TopupID})
	}
	c.JSON(http.StatusOK, dto.FulfillResponse{Success: true, Message: "order fulfilled", Codes: codes})
}

// Notify handles POST /api/orders/:id/notify.
func (h *FulfillmentHandler) Notify(c *gin.Context) {
	if err := h.facade.ResendNotification(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
