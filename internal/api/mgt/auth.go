package mgt

import (
	"github.com/gin-gonic/gin"
	"catalog_go/internal/core/config"
	"catalog_go/internal/core/logger"
	"catalog_go/internal/middleware"
	"catalog_go/internal/model"
	"catalog_go/internal/pkg/response"
	"catalog_go/internal/service"
)

// AuthHandler 管理端认证 Handler
type AuthHandler struct {
	svc *service.UserService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(svc *service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login POST /api/mgt/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}

	token, err := middleware.GenerateToken(user.UID, user.Username, user.Role, &config.Get().JWT)
	if err != nil {
		logger.Error("generate token failed", logger.ErrorField(err))
		response.InternalError(c, "failed to issue token")
		return
	}

	response.Success(c, model.LoginResponse{Token: token, User: *user})
}

// Register POST /api/mgt/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, user)
}
