package v1

import (
	"github.com/gin-gonic/gin"
	"catalog_go/internal/pkg/response"
	"catalog_go/internal/service"
)

// TrackHandler 埋点 Handler
type TrackHandler struct {
	svc *service.AnalyticsService
}

// NewTrackHandler 创建 TrackHandler
func NewTrackHandler(svc *service.AnalyticsService) *TrackHandler {
	return &TrackHandler{svc: svc}
}

// TrackRequest 埋点请求
type TrackRequest struct {
	AssetID   string `json:"asset_id" binding:"required"`
	Action    string `json:"action" binding:"required"`
	Source    string `json:"source"`
	SessionID string `json:"session_id"`
}

// Track POST /api/v1/track
func (h *TrackHandler) Track(c *gin.Context) {
	var req TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.svc.Track(c.Request.Context(), service.TrackInput{
		AssetID:   req.AssetID,
		Action:    req.Action,
		Source:    req.Source,
		SessionID: req.SessionID,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, gin.H{"success": true, "action": req.Action})
}
