package mgt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"catalog_go/internal/pkg/response"
	"catalog_go/internal/service"
)

// TagHandler 标签管理 Handler
type TagHandler struct {
	svc *service.TagService
}

// NewTagHandler 创建 TagHandler
func NewTagHandler(svc *service.TagService) *TagHandler {
	return &TagHandler{svc: svc}
}

// CreateTagRequest 创建标签请求
type CreateTagRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

// Create POST /api/mgt/tags
func (h *TagHandler) Create(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.svc.Create(c.Request.Context(), service.CreateTagInput{
		Name:     req.Name,
		Slug:     req.Slug,
		Category: req.Category,
		Color:    req.Color,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto)
}

// UpdateTagRequest 更新标签请求（缺省字段保持不变）
type UpdateTagRequest struct {
	Name      *string `json:"name"`
	Category  *string `json:"category"`
	Color     *string `json:"color"`
	SortOrder *int    `json:"sort_order"`
}

// Update PUT /api/mgt/tag/:slug
func (h *TagHandler) Update(c *gin.Context) {
	slug := c.Param("slug")

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.svc.Update(c.Request.Context(), slug, service.UpdateTagInput{
		Name:      req.Name,
		Category:  req.Category,
		Color:     req.Color,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto)
}

// Delete DELETE /api/mgt/tag/:slug
// Removes the tag and every board/asset edge that references it.
func (h *TagHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")

	tagID, err := h.svc.Delete(c.Request.Context(), slug)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{"tag_id": tagID, "slug": slug}, "tag deleted")
}

// Export GET /api/mgt/tags/export
func (h *TagHandler) Export(c *gin.Context) {
	data, err := h.svc.ExportCSV(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}

	filename := fmt.Sprintf("tags-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
