package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartquiz/internal/service"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Get GET /api/dashboard — thống kê tổng quan + lưu lượng 24h.
func (h *DashboardHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
