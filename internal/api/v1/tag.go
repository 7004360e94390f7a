package v1

import (
	"github.com/gin-gonic/gin"
	"catalog_go/internal/pkg/response"
	"catalog_go/internal/service"
)

// TagHandler Tag API Handler
type TagHandler struct {
	svc *service.TagService
}

// NewTagHandler 创建 TagHandler
func NewTagHandler(svc *service.TagService) *TagHandler {
	return &TagHandler{svc: svc}
}

// List GET /api/v1/tags
func (h *TagHandler) List(c *gin.Context) {
	list, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

// Get GET /api/v1/tag/:slug
func (h *TagHandler) Get(c *gin.Context) {
	slug := c.Param("slug")

	dto, err := h.svc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if dto == nil {
		response.NotFound(c, "tag not found")
		return
	}
	response.Success(c, dto)
}

// Boards GET /api/v1/tag/:slug/boards
func (h *TagHandler) Boards(c *gin.Context) {
	slug := c.Param("slug")

	boards, err := h.svc.BoardsForTag(c.Request.Context(), slug)
	if err != nil {
		response.Fail(c, err)
		return
	}

	type boardItem struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
		Icon string `json:"icon,omitempty"`
	}
	list := make([]boardItem, 0, len(boards))
	for _, b := range boards {
		list = append(list, boardItem{Slug: b.Slug, Name: b.Name, Icon: b.Icon})
	}
	response.Success(c, list)
}
