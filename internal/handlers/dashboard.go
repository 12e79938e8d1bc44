package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rateyourbarber/trustengine/internal/services"
	"github.com/rateyourbarber/trustengine/pkg/response"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	trust := services.NewTrustService(services.NewStore(db))
	return &DashboardHandler{
		dashboardService: services.NewDashboardService(db, trust),
	}
}

// GetStats returns the dashboard overview
// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	resp, err := h.dashboardService.GetStats()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, resp)
}
