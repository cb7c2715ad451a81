package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
	"github.com/bob1127/eSIM-pwa-sub000/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	items := make([]model.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.LineItem{
			ProductName: item.ProductName,
			SKU:         item.SKU,
			PlanID:      item.PlanID,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	contact := model.ContactInfo{Name: req.OrderInfo.Name, Email: req.OrderInfo.Email, Phone: req.OrderInfo.Phone}

	order, err := h.facade.CreateOrder(c.Request.Context(), contact, items, req.TotalPrice, req.CouponCode)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateOrderResponse{Success: true, OrderID: order.ID})
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrder(*order))
}

// List handles GET /api/orders?email=.
func (h *OrderHandler) List(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respond(c, http.StatusBadRequest, "email query parameter is required")
		return
	}

	orders, err := h.facade.OrderHistory(c.Request.Context(), email)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, dto.FromOrder(o))
	}
	c.JSON(http.StatusOK, response)
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	if err := h.facade.CancelOrder(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
