package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bob1127/eSIM-pwa-sub000/internal/server/http/dto"
)

// PlanHandler manages the SKU to vendor plan id mapping table.
type PlanHandler struct {
	facade PlanFacade
}

// NewPlanHandler constructs PlanHandler.
func NewPlanHandler(facade PlanFacade) *PlanHandler {
	return &PlanHandler{facade: facade}
}

// Upsert handles PUT /api/plans.
func (h *PlanHandler) Upsert(c *gin.Context) {
	var req dto.PlanMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.facade.UpsertPlanMapping(c.Request.Context(), req.SKU, req.PlanID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
