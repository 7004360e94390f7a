package mgt

import (
	"io"

	"github.com/gin-gonic/gin"
	"catalog_go/internal/pkg/response"
	"catalog_go/internal/service"
)

// BoardHandler 版面管理 Handler
type BoardHandler struct {
	svc *service.BoardService
}

// NewBoardHandler 创建 BoardHandler
func NewBoardHandler(svc *service.BoardService) *BoardHandler {
	return &BoardHandler{svc: svc}
}

// CreateBoardRequest 创建版面请求
type CreateBoardRequest struct {
	Slug           string `json:"slug" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Icon           string `json:"icon"`
	ColorPrimary   string `json:"color_primary" binding:"required"`
	ColorSecondary string `json:"color_secondary" binding:"required"`
	ColorAccent    string `json:"color_accent" binding:"required"`
}

// Create POST /api/mgt/boards
func (h *BoardHandler) Create(c *gin.Context) {
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.svc.Create(c.Request.Context(), service.CreateBoardInput{
		Slug:           req.Slug,
		Name:           req.Name,
		Icon:           req.Icon,
		ColorPrimary:   req.ColorPrimary,
		ColorSecondary: req.ColorSecondary,
		ColorAccent:    req.ColorAccent,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto)
}

// UpdateBoardRequest 更新版面请求（缺省字段保持不变）
type UpdateBoardRequest struct {
	Name           *string `json:"name"`
	Icon           *string `json:"icon"`
	ColorPrimary   *string `json:"color_primary"`
	ColorSecondary *string `json:"color_secondary"`
	ColorAccent    *string `json:"color_accent"`
	SortOrder      *int    `json:"sort_order"`
}

// Update PUT /api/mgt/board/:slug
func (h *BoardHandler) Update(c *gin.Context) {
	slug := c.Param("slug")

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.svc.Update(c.Request.Context(), slug, service.UpdateBoardInput{
		Name:           req.Name,
		Icon:           req.Icon,
		ColorPrimary:   req.ColorPrimary,
		ColorSecondary: req.ColorSecondary,
		ColorAccent:    req.ColorAccent,
		SortOrder:      req.SortOrder,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto)
}

// Delete DELETE /api/mgt/board/:slug
func (h *BoardHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")

	if err := h.svc.Delete(c.Request.Context(), slug); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{"slug": slug}, "board deleted")
}

// ReorderRequest 版面排序请求
type ReorderRequest struct {
	Slugs []string `json:"slugs" binding:"required,min=1"`
}

// Reorder POST /api/mgt/boards/reorder
// Boards missing from the list keep their current position.
func (h *BoardHandler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.svc.Reorder(c.Request.Context(), req.Slugs)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"updated": updated})
}

// AttachTagRequest 挂接标签请求
type AttachTagRequest struct {
	DisplayName *string `json:"display_name"`
	SortOrder   *int    `json:"sort_order"`
}

// AttachTag POST /api/mgt/board/:slug/tag/:tagSlug
func (h *BoardHandler) AttachTag(c *gin.Context) {
	slug := c.Param("slug")
	tagSlug := c.Param("tagSlug")

	// body is optional, an empty one means defaults
	var req AttachTagRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.svc.AttachTag(c.Request.Context(), slug, tagSlug, service.AttachTagInput{
		DisplayName: req.DisplayName,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{"board": slug, "tag": tagSlug}, "tag attached")
}

// DetachTag DELETE /api/mgt/board/:slug/tag/:tagSlug
func (h *BoardHandler) DetachTag(c *gin.Context) {
	slug := c.Param("slug")
	tagSlug := c.Param("tagSlug")

	if err := h.svc.DetachTag(c.Request.Context(), slug, tagSlug); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{"board": slug, "tag": tagSlug}, "tag detached")
}

// PlaceAssetRequest 资源归档请求
type PlaceAssetRequest struct {
	AssetID string `json:"asset_id" binding:"required"`
}

// PlaceAsset POST /api/mgt/board/:slug/assets
func (h *BoardHandler) PlaceAsset(c *gin.Context) {
	slug := c.Param("slug")

	var req PlaceAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.svc.PlaceAsset(c.Request.Context(), req.AssetID, slug); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{"board": slug, "asset_id": req.AssetID}, "asset placed")
}

// RemoveAsset DELETE /api/mgt/board/:slug/asset/:assetID
func (h *BoardHandler) RemoveAsset(c *gin.Context) {
	slug := c.Param("slug")
	assetID := c.Param("assetID")

	if err := h.svc.RemoveAsset(c.Request.Context(), assetID, slug); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{"board": slug, "asset_id": assetID}, "asset removed")
}

// ResyncAssetTags POST /api/mgt/assets/resync-tags
// Full rebuild of the asset-tag index from each asset's freeform tags.
func (h *BoardHandler) ResyncAssetTags(c *gin.Context) {
	result, err := h.svc.ResyncAssetTags(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}
