package mgt

import (
	"github.com/gin-gonic/gin"
	"catalog_go/internal/pkg/response"
	"catalog_go/internal/pkg/util"
	"catalog_go/internal/service"
)

// AnalyticsHandler 数据报表 Handler
type AnalyticsHandler struct {
	svc *service.AnalyticsService
}

// NewAnalyticsHandler 创建 AnalyticsHandler
func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Report GET /api/mgt/analytics/report?days=30
func (h *AnalyticsHandler) Report(c *gin.Context) {
	days := 0
	if q := c.Query("days"); q != "" {
		n, err := util.StrToInt(q)
		if err != nil || n <= 0 {
			response.BadRequest(c, "days must be a positive integer")
			return
		}
		days = n
	}

	report, err := h.svc.Report(c.Request.Context(), days)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, report)
}
