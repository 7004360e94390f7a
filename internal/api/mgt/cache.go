package mgt

import (
	"github.com/gin-gonic/gin"
	"catalog_go/internal/core/logger"
	"catalog_go/internal/pkg/response"
	"catalog_go/internal/service"
)

// CacheHandler 缓存管理 Handler
type CacheHandler struct {
	tagSvc      *service.TagService
	boardSvc    *service.BoardService
	taxonomySvc *service.TaxonomyService
}

// NewCacheHandler 创建 CacheHandler
func NewCacheHandler(tagSvc *service.TagService, boardSvc *service.BoardService, taxonomySvc *service.TaxonomyService) *CacheHandler {
	return &CacheHandler{tagSvc: tagSvc, boardSvc: boardSvc, taxonomySvc: taxonomySvc}
}

// Flush POST /api/mgt/cache/flush
// Drops every cache layer: L1, L2 and the taxonomy display snapshot.
func (h *CacheHandler) Flush(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.tagSvc.FlushCache(ctx); err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.boardSvc.FlushCache(ctx); err != nil {
		response.Fail(c, err)
		return
	}
	h.taxonomySvc.Flush()

	logger.Info("all caches flushed")
	response.SuccessWithMsg(c, nil, "caches flushed")
}
