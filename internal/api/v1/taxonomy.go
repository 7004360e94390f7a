package v1

import (
	"github.com/gin-gonic/gin"
	"catalog_go/internal/pkg/response"
	"catalog_go/internal/service"
)

// TaxonomyHandler 徽章展示查询 Handler
type TaxonomyHandler struct {
	svc *service.TaxonomyService
}

// NewTaxonomyHandler 创建 TaxonomyHandler
func NewTaxonomyHandler(svc *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{svc: svc}
}

// Display GET /api/v1/taxonomy/display
// Served from the process-wide snapshot; may lag writes by up to the TTL.
func (h *TaxonomyHandler) Display(c *gin.Context) {
	snap, err := h.svc.Display(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, snap)
}
