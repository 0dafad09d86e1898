package handlers

import (
	"net/http"

	"onetracker/services/availability"
	"onetracker/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	Svc availability.Service
}

func NewAvailabilityHandler(svc availability.Service) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc}
}

// Get returns the cached open-slot snapshot for the upcoming window.
func (h *AvailabilityHandler) Get(c *gin.Context) {
	days, err := h.Svc.Snapshot(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("failed to compute availability", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Availability fetched successfully", days)
}
