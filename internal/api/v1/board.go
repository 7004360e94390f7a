package v1

import (
	"github.com/gin-gonic/gin"
	"catalog_go/internal/pkg/response"
	"catalog_go/internal/service"
)

// BoardHandler Board API Handler
type BoardHandler struct {
	svc *service.BoardService
}

// NewBoardHandler 创建 BoardHandler
func NewBoardHandler(svc *service.BoardService) *BoardHandler {
	return &BoardHandler{svc: svc}
}

// List GET /api/v1/boards
// Every board with its tag edges (per-board order, effective display
// names) and its distinct asset count.
func (h *BoardHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Get GET /api/v1/board/:slug
func (h *BoardHandler) Get(c *gin.Context) {
	slug := c.Param("slug")

	dto, err := h.svc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if dto == nil {
		response.NotFound(c, "board not found")
		return
	}
	response.Success(c, dto)
}
